package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionID_Opaque(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantZero bool
		wantStr  string
		wantJSON string
	}{
		{"string", `{"session_id":"abc"}`, false, "abc", `"abc"`},
		{"number", `{"session_id":1234567890123456789}`, false, "1234567890123456789", `1234567890123456789`},
		{"null", `{"session_id":null}`, true, "", `null`},
		{"missing", `{}`, true, "", `null`},
		{"empty string", `{"session_id":""}`, true, "", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp UploadResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			assert.Equal(t, tt.wantZero, resp.SessionID.IsZero())
			assert.Equal(t, tt.wantStr, resp.SessionID.String())

			out, err := json.Marshal(AskRequest{Question: "q", SessionID: resp.SessionID})
			require.NoError(t, err)
			assert.JSONEq(t, `{"question":"q","session_id":`+tt.wantJSON+`}`, string(out))
		})
	}
}

func TestSessionID_Clone(t *testing.T) {
	id := NewSessionID("abc")
	clone := id.Clone()
	clone[1] = 'x'

	assert.Equal(t, "abc", id.String())
	assert.Nil(t, SessionID(nil).Clone())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(OpAsk, nil))
	assert.Equal(t, ErrNoFile.Message, UserMessage(OpUpload, ErrNoFile))
	assert.Equal(t, "boom", UserMessage(OpAsk, &RemoteError{Op: OpAsk, Detail: "boom"}))
	assert.Equal(t, "Error processing question.", UserMessage(OpAsk, &RemoteError{Op: OpAsk}))
	assert.Equal(t, "Error uploading file.", UserMessage(OpUpload, assert.AnError))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("report.pdf"))
	assert.True(t, IsPDF("/tmp/REPORT.PDF"))
	assert.False(t, IsPDF("report.pdf.txt"))
	assert.False(t, IsPDF("report"))
}

func TestErrorResponse_DetailString(t *testing.T) {
	var r ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(`{"detail":"nope"}`), &r))
	assert.Equal(t, "nope", r.DetailString())

	require.NoError(t, json.Unmarshal([]byte(`{"detail":[{"msg":"x"}]}`), &r))
	assert.Equal(t, "", r.DetailString())
}
