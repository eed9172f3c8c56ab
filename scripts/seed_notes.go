package main

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var sampleNotes = []struct {
	title   string
	content string
}{
	{"Standup notes", "Discussed blockers on the release branch."},
	{"Quarterly report", "Finished the draft, needs one more review pass."},
	{"Reading list", "Start the distributed systems paper this weekend."},
	{"Groceries", "Eggs, coffee, olive oil, rye bread."},
	{"Meeting recap", "Agreed on the new onboarding flow with design."},
	{"Bug notes", "The timeout only reproduces behind the corporate proxy."},
	{"Trip planning", "Book the train tickets before Friday."},
	{"Sprint planning", "Carried over two stories, added the migration task."},
	{"Ideas", "A command palette for the notes grid could replace the sidebar."},
	{"Feedback", "Customer wants export to markdown, mentioned twice now."},
	{"Refactor plan", "Split the handlers file before it grows any further."},
	{"Demo prep", "Rehearse the summarize flow with a long sample note."},
}

func main() {
	db, err := sql.Open("sqlite3", "./inkwell.db")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Seed notes for user 1 over the past year
	now := time.Now()
	oneYearAgo := now.AddDate(-1, 0, 0)
	inserted := 0

	for day := oneYearAgo; day.Before(now); day = day.AddDate(0, 0, 1) {
		// Random number of notes per day (0-2)
		numNotes := rand.Intn(3)
		for i := 0; i < numNotes; i++ {
			n := sampleNotes[rand.Intn(len(sampleNotes))]
			ts := day.Add(time.Duration(8+rand.Intn(12)) * time.Hour)
			_, err := db.Exec("INSERT INTO notes (user_id, title, content, last_modified) VALUES (?, ?, ?, ?)", 1, n.title, n.content, ts)
			if err != nil {
				log.Fatal(err)
			}
			inserted++
		}
	}

	fmt.Printf("Inserted %d notes\n", inserted)
}
