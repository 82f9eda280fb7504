package filenamepolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	assert.Equal(t, "Hero_of_the_Vale", SafeName("Hero of the Vale"))
	assert.Equal(t, "Герой", SafeName("Герой"))
	assert.Equal(t, "Caf__con_leche", SafeName("Café con leche"))
}

func TestDeriveFilename(t *testing.T) {
	named := DeriveFilename(NameHint{Name: "Hero", ID: "aaa"}, "aaa", "json")
	assert.Equal(t, "Hero_aaa.json", named)

	unnamed := DeriveFilename(NameHint{Name: "", ID: "aaa"}, "aaa", "json")
	assert.Equal(t, "aaa.json", unnamed)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindYAML, Classify("foo.yml"))
	assert.Equal(t, KindYAML, Classify("foo.YAML"))
	assert.Equal(t, KindJSON, Classify("foo.json"))
	assert.Equal(t, KindSkip, Classify("foo.txt"))
}
