package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SoftDryzz/vaultic/internal/dotenv"
)

func makeFile(pairs ...[2]string) *dotenv.SecretFile {
	file := &dotenv.SecretFile{}
	for i, kv := range pairs {
		file.Lines = append(file.Lines, dotenv.EntryLine(dotenv.Entry{
			Key:        kv[0],
			Value:      kv[1],
			LineNumber: i + 1,
		}))
	}
	return file
}

func TestIdenticalFilesProduceEmptyDiff(t *testing.T) {
	a := makeFile([2]string{"DB", "localhost"}, [2]string{"PORT", "5432"})
	b := makeFile([2]string{"DB", "localhost"}, [2]string{"PORT", "5432"})

	result := Diff(a, b, "a", "b")
	assert.True(t, result.IsEmpty())
}

func TestDetectsAddedKeys(t *testing.T) {
	a := makeFile([2]string{"DB", "localhost"})
	b := makeFile([2]string{"DB", "localhost"}, [2]string{"REDIS", "redis:6379"})

	result := Diff(a, b, "a", "b")

	assert.Len(t, result.Entries, 1)
	assert.Equal(t, "REDIS", result.Entries[0].Key)
	assert.Equal(t, DiffAdded, result.Entries[0].Kind)
}

func TestDetectsRemovedKeys(t *testing.T) {
	a := makeFile([2]string{"DB", "localhost"}, [2]string{"OLD_KEY", "gone"})
	b := makeFile([2]string{"DB", "localhost"})

	result := Diff(a, b, "a", "b")

	assert.Len(t, result.Entries, 1)
	assert.Equal(t, "OLD_KEY", result.Entries[0].Key)
	assert.Equal(t, DiffRemoved, result.Entries[0].Kind)
}

func TestDetectsModifiedValues(t *testing.T) {
	a := makeFile([2]string{"DB", "localhost"})
	b := makeFile([2]string{"DB", "rds.aws.com"})

	result := Diff(a, b, "a", "b")

	assert.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, DiffModified, entry.Kind)
	assert.Equal(t, "localhost", entry.OldValue)
	assert.Equal(t, "rds.aws.com", entry.NewValue)
}

func TestMixedChangesSortedByKey(t *testing.T) {
	a := makeFile([2]string{"A", "1"}, [2]string{"B", "old"}, [2]string{"C", "3"})
	b := makeFile([2]string{"B", "new"}, [2]string{"C", "3"}, [2]string{"D", "4"})

	result := Diff(a, b, "left", "right")

	assert.Len(t, result.Entries, 3)
	assert.Equal(t, "A", result.Entries[0].Key)
	assert.Equal(t, DiffRemoved, result.Entries[0].Kind)
	assert.Equal(t, "B", result.Entries[1].Key)
	assert.Equal(t, DiffModified, result.Entries[1].Kind)
	assert.Equal(t, "D", result.Entries[2].Key)
	assert.Equal(t, DiffAdded, result.Entries[2].Kind)

	added, removed, modified := result.Counts()
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, modified)
}

func TestDiffPreservesNames(t *testing.T) {
	result := Diff(makeFile([2]string{"X", "1"}), makeFile([2]string{"X", "2"}), "dev.env", "prod.env")

	assert.Equal(t, "dev.env", result.LeftName)
	assert.Equal(t, "prod.env", result.RightName)
}

func TestDiffKeysCaseSensitive(t *testing.T) {
	result := Diff(makeFile([2]string{"key", "lower"}), makeFile([2]string{"KEY", "upper"}), "a", "b")

	assert.Len(t, result.Entries, 2)
	assert.Equal(t, "KEY", result.Entries[0].Key)
	assert.Equal(t, DiffAdded, result.Entries[0].Kind)
	assert.Equal(t, "key", result.Entries[1].Key)
	assert.Equal(t, DiffRemoved, result.Entries[1].Kind)
}

func TestEmptyFilesProduceEmptyDiff(t *testing.T) {
	result := Diff(&dotenv.SecretFile{}, &dotenv.SecretFile{}, "a", "b")
	assert.True(t, result.IsEmpty())
}
