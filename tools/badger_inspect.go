// Command badger_inspect dumps the chat store as a table, one row per key.
// Handy for checking what the server actually persisted.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"lack-chat/domain"
)

func main() {
	dbPath := flag.String("db", "/tmp/lack-chat", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, user:, channel:, member:, kick:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Family", "Timestamp", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				table.Append(describe(key, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe renders one row per key family; unknown families fall back to a
// raw size display.
func describe(key string, val []byte) []string {
	parts := strings.Split(key, ":")
	family := strings.ToUpper(parts[0])
	timestamp := "--:--:--"
	detail := fmt.Sprintf("%d bytes", len(val))

	switch parts[0] {
	case "msg":
		var message domain.Message
		if err := json.Unmarshal(val, &message); err == nil {
			timestamp = message.CreatedAt.Format("15:04:05")
			detail = fmt.Sprintf("%s: %s", message.Author.Nickname, truncate(message.Content, 48))
		}
		if len(parts) >= 3 {
			if tsNano, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
				timestamp = time.Unix(0, tsNano).Format("15:04:05")
			}
		}
	case "user":
		var user domain.User
		if err := json.Unmarshal(val, &user); err == nil && user.Nickname != "" {
			detail = user.Nickname
		}
	case "channel":
		var channel domain.Channel
		if err := json.Unmarshal(val, &channel); err == nil {
			detail = fmt.Sprintf("%s public=%t admin=%s", channel.Name, channel.IsPublic, channel.AdminID)
		}
	case "member":
		var membership domain.Membership
		if err := json.Unmarshal(val, &membership); err == nil {
			state := "pending"
			if !membership.Pending() {
				state = "joined"
				timestamp = membership.JoinedAt.Format("15:04:05")
			}
			detail = fmt.Sprintf("%s (%s)", membership.UserID, state)
		}
	case "kick":
		var record domain.KickRecord
		if err := json.Unmarshal(val, &record); err == nil {
			timestamp = record.CreatedAt.Format("15:04:05")
			detail = fmt.Sprintf("%s kicked %s", record.KickerID, record.TargetID)
		}
	}

	return []string{key, family, timestamp, detail}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
