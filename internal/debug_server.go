package internal

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// inspectTemplate is a minimal read-only view over the badger keyspace.
const inspectTemplate = `<!DOCTYPE html>
<html>
<head><title>lack-chat inspector</title>
<style>
body { font-family: monospace; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
</style>
</head>
<body>
<h1>Keyspace: {{.Prefix}}</h1>
<table>
<tr><th>Key</th><th>Family</th><th>Timestamp</th><th>Size</th></tr>
{{range .Items}}
<tr><td>{{.Key}}</td><td>{{.Family}}</td><td>{{.Timestamp}}</td><td>{{.Size}}</td></tr>
{{end}}
</table>
</body>
</html>`

type InspectRow struct {
	Key       string
	Family    string
	Timestamp string
	Size      string
}

type PageData struct {
	Prefix string
	Items  []InspectRow
}

// StartDebugServer exposes /inspect for poking at the store while the chat
// server runs. Not for production exposure.
func StartDebugServer(db *badger.DB, port int) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.New("inspect").Parse(inspectTemplate))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "msg:"
		}
		data := PageData{Prefix: prefix}

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

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("localhost:%d", port), mux)
	}()
}

// mapRow decodes the key families of the store: msg:{channel}:{nano}:{id},
// user:, channel:, member:, kick:.
func mapRow(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Family:    "RAW",
		Timestamp: "--:--:--",
		Size:      strconv.Itoa(len(val)) + " bytes",
	}
	parts := strings.Split(key, ":")
	if len(parts) == 0 {
		return row
	}
	row.Family = strings.ToUpper(parts[0])
	if parts[0] == "msg" && len(parts) >= 3 {
		if tsNano, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			row.Timestamp = time.Unix(0, tsNano).Format("15:04:05")
		}
	}
	return row
}
