package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHandler_Renders_Keyspace_Slice(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	room, err := json.Marshal(map[string]any{
		"id": "r1", "name": "Room1", "join_code": "Ab12Cd",
		"members": []map[string]string{{"guest_id": "g1", "name": "Alice"}},
	})
	req.NoError(err)
	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("room:r1"), room); err != nil {
			return err
		}
		return txn.Set([]byte("idx:room-code:Ab12Cd"), []byte("r1"))
	}))

	handler := Handler(db, func() map[string]any {
		return map[string]any{"active_sessions": 3}
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/inspect?prefix=room:", nil))

	req.Equal(http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	req.Contains(body, "room:r1")
	req.Contains(body, "Room1 [Ab12Cd] 1 member(s)")
	req.Contains(body, "active_sessions")
}

func TestMapRow_Index_And_Message_Keys(t *testing.T) {
	req := require.New(t)

	idx := mapRow("idx:guest-name:Alice", []byte("token-1"))
	req.Equal("idx:guest-name", idx.Namespace)
	req.Equal("-> token-1", idx.Detail)

	payload, err := json.Marshal(map[string]any{"sender_name": "Bob", "text": "hello"})
	req.NoError(err)
	msg := mapRow("msg:r1:0000000000000000000", payload)
	req.Equal("msg", msg.Namespace)
	req.Equal("Bob: hello", msg.Detail)
}
