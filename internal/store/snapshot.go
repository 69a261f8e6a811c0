package store

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskflow/internal/model"

	"github.com/tidwall/gjson"
)

var (
	errSnapshotInvalidJSON = errors.New("snapshot is not valid JSON")
	errSnapshotNotList     = errors.New("snapshot is not a JSON array")
)

// decodeResult describes what sanitizing a snapshot recovered.
type decodeResult struct {
	Tasks     []model.Task
	Dropped   int // entries removed because their text was blank or not a string
	Rewritten int // entries that needed a fresh id
	Stamped   int // entries whose createdAt was replaced with the load time
}

// changed reports whether the sanitized list differs from what was stored.
func (r decodeResult) changed() bool {
	return r.Dropped > 0 || r.Rewritten > 0 || r.Stamped > 0
}

const maxTaskIDLen = 128

// validTaskID accepts ids that are safe inside URL path segments and markup attributes.
func validTaskID(id string) bool {
	if id == "" || len(id) > maxTaskIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// decodeTasks reads a persisted snapshot leniently.
//
// A snapshot that is not a JSON array yields an error and no tasks. Inside the array every
// entry is sanitized field by field rather than rejected:
//   - id: strings are kept, numbers keep their literal text; anything else, a duplicate, or
//     an id with characters outside [A-Za-z0-9._-] gets a fresh id
//   - text: non-strings become "" and blank entries are dropped
//   - completed: only a JSON true counts as completed
//   - createdAt: non-numbers become now
func decodeTasks(raw string, now time.Time, newID func() string) (decodeResult, error) {
	var res decodeResult
	if !gjson.Valid(raw) {
		return res, errSnapshotInvalidJSON
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return res, errSnapshotNotList
	}

	seen := map[string]bool{}
	res.Tasks = []model.Task{}
	root.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			// Same as an object with no fields: no text, so it is dropped.
			res.Dropped++
			return true
		}

		text := ""
		if v := entry.Get("text"); v.Type == gjson.String {
			text = v.Str
		}
		if strings.TrimSpace(text) == "" {
			res.Dropped++
			return true
		}

		id := ""
		switch v := entry.Get("id"); v.Type {
		case gjson.String:
			id = v.Str
		case gjson.Number:
			id = v.Raw
		}
		if !validTaskID(id) || seen[id] {
			id = newID()
			res.Rewritten++
		}
		seen[id] = true

		createdAt := now.UnixMilli()
		if v := entry.Get("createdAt"); v.Type == gjson.Number {
			createdAt = v.Int()
		} else {
			res.Stamped++
		}

		res.Tasks = append(res.Tasks, model.Task{
			ID:        id,
			Text:      text,
			Completed: entry.Get("completed").Type == gjson.True,
			CreatedAt: createdAt,
		})
		return true
	})
	return res, nil
}

// encodeTasks serializes the full list in the persisted layout.
func encodeTasks(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
