package omdb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		name       string
		in         failure
		wantKind   ErrorKind
		wantStatus int
		wantMsg    string
	}{
		{
			name:     "transport wins over everything",
			in:       failure{transport: errors.New("dial tcp: connection refused"), statusCode: 500, body: &envelope{Response: "False", Error: "x"}},
			wantKind: KindNetwork,
			wantMsg:  "dial tcp: connection refused",
		},
		{
			name:       "status wins over body",
			in:         failure{statusCode: 404, body: &envelope{Response: "False", Error: "x"}},
			wantKind:   KindHTTP,
			wantStatus: 404,
			wantMsg:    "HTTP error! status: 404",
		},
		{
			name:     "body reports failure",
			in:       failure{statusCode: 200, body: &envelope{Response: "False", Error: "Too many results."}},
			wantKind: KindAPI,
			wantMsg:  "Too many results.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}

func TestNormalizeSuccess(t *testing.T) {
	assert.Nil(t, normalize(failure{statusCode: 200, body: &envelope{Response: "True"}}))
	assert.Nil(t, normalize(failure{statusCode: 204}))
}

func TestNormalizeExported(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	original := &Error{Kind: KindAPI, Message: "Movie not found!"}
	wrapped := fmt.Errorf("lookup failed: %w", original)
	assert.Same(t, original, Normalize(original))
	assert.Same(t, original, Normalize(wrapped))

	other := Normalize(errors.New("boom"))
	assert.Equal(t, KindNetwork, other.Kind)
	assert.Equal(t, "boom", other.Message)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "omdb http error (500): HTTP error! status: 500",
		(&Error{Kind: KindHTTP, StatusCode: 500, Message: "HTTP error! status: 500"}).Error())
	assert.Equal(t, "omdb api error: Movie not found!",
		(&Error{Kind: KindAPI, Message: "Movie not found!"}).Error())
}
