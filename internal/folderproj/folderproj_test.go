package folderproj

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packsmith/cpack/internal/docvalue"
)

func TestBuildTopLevelFolder(t *testing.T) {
	folders := []docvalue.Doc{
		{"_id": "f1", "name": "Bestiary", "folder": nil, "type": "Actor"},
	}
	out := Build(folders, Options{})
	assert.Equal(t, "Bestiary_f1", out["f1"].Path)
	assert.Equal(t, "Bestiary_f1", out["f1"].Name)
}

func TestBuildNestedFolderJoinsAncestorPath(t *testing.T) {
	folders := []docvalue.Doc{
		{"_id": "f1", "name": "Bestiary", "folder": ""},
		{"_id": "f2", "name": "Dragons", "folder": "f1"},
	}
	out := Build(folders, Options{})
	assert.Equal(t, "Bestiary_f1/Dragons_f2", out["f2"].Path)
	assert.Equal(t, "f1", out["f2"].Parent)
}

func TestBuildGroupByTypePrependsDocType(t *testing.T) {
	folders := []docvalue.Doc{
		{"_id": "f1", "name": "Bestiary", "folder": "", "type": "Actor"},
	}
	out := Build(folders, Options{GroupByType: true})
	assert.Equal(t, "Actor/Bestiary_f1", out["f1"].Path)
}

func TestBuildUsesNameTransformWhenProvided(t *testing.T) {
	folders := []docvalue.Doc{
		{"_id": "f1", "name": "Bestiary", "folder": ""},
	}
	out := Build(folders, Options{
		NameTransform: func(folder docvalue.Doc) string {
			return "custom-" + docvalue.GetString(folder, "_id")
		},
	})
	assert.Equal(t, "custom-f1", out["f1"].Path)
}
