package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var docentGreetings = [...]string{
	"The galleries are lit. Nobody has signed the guest book yet.",
	"Forty-five temples on the outer ring and not one visitor among them.",
	"The weapons are polished. The fossils are patient. You are outside.",
	"Ten questions wait in the game room. Ten points each, if you earn them.",
	"The shrine rings are smaller. The queue to see them is shorter still.",
	"Every exhibit has its place on a ring. Yours is by the door.",
	"The leaderboard has a gap exactly your size.",
	"The ammonites have waited a hundred million years. They can wait a little longer.",
	"Rings of eighteen, twenty-four and thirty paces. Come count them yourself.",
	"The docent has rehearsed the tour. The docent would like an audience.",
}

var docentFarewells = [...]string{
	"The lights dim behind you. The exhibits stay where they are.",
	"Your ticket is torn. Come back any time.",
	"The galleries will keep their rings until you return.",
	"The docent waves. The fossils do not.",
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5c542")).
			Bold(true)

	quoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	attribStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func printDocent(w io.Writer, msg, hint string) {
	fmt.Fprintf(w, "\n%s\n\n%s\n%s\n", titleStyle.Render("MUSEUM"), quoteStyle.Render(msg), attribStyle.Render("- the docent"))
	if hint != "" {
		fmt.Fprintf(w, "\n%s\n", hintStyle.Render(hint))
	}
	fmt.Fprintln(w)
}

// printGreeting is shown to visitors who are not signed in.
func printGreeting(w io.Writer) {
	printDocent(w, docentGreetings[rand.IntN(len(docentGreetings))], "To enter: museum login")
}

// printFarewell is shown after logging out.
func printFarewell(w io.Writer) {
	printDocent(w, docentFarewells[rand.IntN(len(docentFarewells))], "")
}
