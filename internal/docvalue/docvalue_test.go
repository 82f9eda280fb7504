package docvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsDeep(t *testing.T) {
	original := Doc{
		"name":  "Hero",
		"items": []interface{}{Doc{"name": "Sword"}},
	}
	clone := Clone(original).(Doc)

	items := clone["items"].([]interface{})
	item := items[0].(Doc)
	item["name"] = "Axe"

	originalItems := original["items"].([]interface{})
	assert.Equal(t, "Sword", originalItems[0].(Doc)["name"])
}

func TestDeepEqual(t *testing.T) {
	a := Doc{"name": "Hero", "items": []interface{}{"i1", "i2"}}
	b := Doc{"name": "Hero", "items": []interface{}{"i1", "i2"}}
	assert.True(t, DeepEqual(a, b))

	c := Doc{"name": "Hero", "items": []interface{}{"i1"}}
	assert.False(t, DeepEqual(a, c))
}

func TestGetHelpers(t *testing.T) {
	d := Doc{
		"name":   "Hero",
		"folder": Doc{"_id": "f1"},
		"items":  []interface{}{"i1", "i2"},
	}
	assert.Equal(t, "Hero", GetString(d, "name"))
	assert.Equal(t, "", GetString(d, "missing"))
	assert.Equal(t, Doc{"_id": "f1"}, GetDoc(d, "folder"))
	assert.Equal(t, []interface{}{"i1", "i2"}, GetSlice(d, "items"))
}

func TestAsDoc(t *testing.T) {
	d, ok := AsDoc(Doc{"_id": "a"})
	assert.True(t, ok)
	assert.Equal(t, "a", d["_id"])

	_, ok = AsDoc("not a doc")
	assert.False(t, ok)
}

func TestSetAndDeleteField(t *testing.T) {
	d := Doc{}
	SetField(d, "_key", "!actors!aaa")
	assert.Equal(t, "!actors!aaa", d["_key"])

	DeleteField(d, "_key")
	_, ok := d["_key"]
	assert.False(t, ok)
}
