// Package internal hosts the HTML debug inspector: a read-only view of the
// raw BadgerDB keyspace, served on a separate port when DEBUG_PORT is set.
package internal

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	Namespace string
	EntityID  string
	Timestamp string
	Detail    string
}

// StatsProvider returns counters rendered in the dashboard header,
// e.g. active session count.
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// Handler serves the inspector on /inspect. The prefix query parameter
// selects the keyspace slice; it defaults to rooms.
func Handler(db *badger.DB, statsProvider StatsProvider) http.Handler {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "room:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapRow(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	return mux
}

// StartDebugServer listens on all interfaces so the dashboard is reachable
// from outside the host running the coordinator.
func StartDebugServer(db *badger.DB, port int, statsProvider StatsProvider) {
	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), Handler(db, statsProvider))
	}()
}

// mapRow renders one keyspace entry. Index keys hold a bare string value,
// every record key holds a JSON document.
func mapRow(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Namespace: "raw",
		EntityID:  "--------",
		Timestamp: "--:--:--",
		Detail:    "size: " + strconv.Itoa(len(val)) + " bytes",
	}

	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return row
	}
	row.Namespace = parts[0]
	if parts[0] == "idx" && len(parts) == 3 {
		row.Namespace = "idx:" + parts[1]
		row.EntityID = shorten(parts[2])
		row.Detail = "-> " + string(val)
		return row
	}
	row.EntityID = shorten(parts[1])

	var record map[string]any
	if err := json.Unmarshal(val, &record); err != nil {
		return row
	}
	if at, ok := record["created_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			row.Timestamp = ts.Format("15:04:05")
		}
	}
	if at, ok := record["at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			row.Timestamp = ts.Format("15:04:05")
		}
	}
	row.Detail = describe(parts[0], record)
	return row
}

func describe(namespace string, record map[string]any) string {
	switch namespace {
	case "guest":
		name, _ := record["name"].(string)
		if roomID, ok := record["current_room_id"].(string); ok && roomID != "" {
			return fmt.Sprintf("%s in %s", name, shorten(roomID))
		}
		return name + " (no room)"
	case "room":
		name, _ := record["name"].(string)
		code, _ := record["join_code"].(string)
		members, _ := record["members"].([]any)
		return fmt.Sprintf("%s [%s] %d member(s)", name, code, len(members))
	case "msg":
		sender, _ := record["sender_name"].(string)
		text, _ := record["text"].(string)
		if len(text) > 48 {
			text = text[:48] + "…"
		}
		return fmt.Sprintf("%s: %s", sender, text)
	}
	return fmt.Sprintf("%d field(s)", len(record))
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
