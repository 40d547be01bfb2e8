package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteValidate(t *testing.T) {
	tests := []struct {
		name string
		note Note
		err  error
	}{
		{"valid content", Note{OwnerID: 1, Content: "text"}, nil},
		{"valid link only", Note{OwnerID: 1, Links: []Link{{URL: "https://x.test"}}}, nil},
		{"missing owner", Note{Content: "text"}, ErrInvalidOwner},
		{"blank content no links", Note{OwnerID: 1, Content: " \n"}, ErrEmptyContent},
		{"blank link url", Note{OwnerID: 1, Content: "x", Links: []Link{{URL: " "}}}, ErrEmptyURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestNoteStatusValid(t *testing.T) {
	assert.True(t, NoteActive.Valid())
	assert.True(t, NoteArchived.Valid())
	assert.False(t, NoteStatus("deleted").Valid())
	assert.False(t, NoteStatus("").Valid())
}

func TestScorableLinkToLink(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	l := ScorableLink{ID: "l1", NoteID: "n1", URL: "https://go.dev", Title: "Go", Description: "d", CreatedAt: created}.ToLink()
	assert.Equal(t, Link{ID: "l1", NoteID: "n1", URL: "https://go.dev", Title: "Go", Description: "d", CreatedAt: created}, l)
}

func TestSearchCandidateValidate(t *testing.T) {
	valid := SearchCandidate{Kind: KindNote, ID: "n1", RelevanceScore: 0.5}
	assert.NoError(t, valid.Validate())

	noID := valid
	noID.ID = ""
	assert.ErrorIs(t, noID.Validate(), ErrInvalidCandidateID)

	badKind := valid
	badKind.Kind = "file"
	assert.ErrorIs(t, badKind.Validate(), ErrInvalidResultKind)

	for _, score := range []float64{-0.01, 1.01} {
		bad := valid
		bad.RelevanceScore = score
		assert.ErrorIs(t, bad.Validate(), ErrInvalidRelevanceScore)
	}
}

func TestSearchResultPageJSON(t *testing.T) {
	page := UnifiedResultPage{
		SearchResultPage: SearchResultPage{
			Items: []SearchCandidate{{
				Kind:           KindLink,
				ID:             "l1",
				NoteID:         "n1",
				URL:            "https://react.dev",
				RelevanceScore: 0.625,
			}},
			TotalCount:  1,
			CurrentPage: 1,
			TotalPages:  1,
			Query:       "reactt",
		},
		NoteCount: 0,
		LinkCount: 1,
	}

	data, err := json.Marshal(page)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"items", "totalCount", "currentPage", "totalPages", "query", "noteCount", "linkCount"} {
		assert.Contains(t, raw, key)
	}

	item := raw["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "link", item["type"])
	assert.Equal(t, 0.625, item["relevance_score"])
	assert.NotContains(t, item, "content")
}

func TestSearchResultPageEmpty(t *testing.T) {
	page := SearchResultPage{Items: []SearchCandidate{}, TotalPages: 1, CurrentPage: 1}
	assert.True(t, page.Empty())

	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("query", "cannot be empty")
	assert.EqualError(t, err, "invalid query: cannot be empty")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrDataAccess)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "query", verr.Field)
}

func TestDataAccessError(t *testing.T) {
	assert.NoError(t, NewDataAccessError("fetch", nil))

	cause := errors.New("connection refused")
	err := NewDataAccessError("fetch scorable notes", cause)
	assert.EqualError(t, err, "fetch scorable notes: connection refused")
	assert.ErrorIs(t, err, ErrDataAccess)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrValidation)
}
