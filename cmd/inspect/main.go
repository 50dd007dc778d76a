// Command inspect dumps the contents of a guest-chat BadgerDB for
// debugging: guests, rooms, or one room's message log.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./badger", "Path to the badger database")
	what := flag.String("what", "rooms", "What to dump: guests, rooms or messages")
	roomID := flag.String("room", "", "Room ID (required with -what=messages)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	switch *what {
	case "guests":
		err = dump(db, "guest:", []string{"ID", "Name", "Current Room"},
			func(record map[string]any) []string {
				return []string{str(record["id"]), str(record["name"]), str(record["current_room_id"])}
			})
	case "rooms":
		err = dump(db, "room:", []string{"ID", "Name", "Private", "Join Code", "Members", "Messages"},
			func(record map[string]any) []string {
				members, _ := record["members"].([]any)
				return []string{
					str(record["id"]), str(record["name"]),
					fmt.Sprint(record["is_private"]), str(record["join_code"]),
					fmt.Sprint(len(members)), fmt.Sprint(record["next_seq"]),
				}
			})
	case "messages":
		if *roomID == "" {
			log.Fatal("-room is required with -what=messages")
		}
		err = dump(db, "msg:"+*roomID+":", []string{"Seq", "Sender", "Text", "At"},
			func(record map[string]any) []string {
				return []string{
					fmt.Sprint(record["seq"]), str(record["sender_name"]),
					str(record["text"]), str(record["at"]),
				}
			})
	default:
		log.Fatalf("Unknown -what value %q", *what)
	}
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}
}

func dump(db *badger.DB, prefix string, headers []string, row func(map[string]any) []string) error {
	color.Green.Printf("Scanning prefix %q\n", prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	count := 0
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var record map[string]any
				if err := json.Unmarshal(value, &record); err != nil {
					color.Red.Printf("Skipping corrupt entry %s: %v\n", it.Item().Key(), err)
					return nil
				}
				table.Append(row(record))
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	table.Render()
	color.Green.Printf("%d entries\n", count)
	return nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
