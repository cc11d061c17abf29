package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mindcare/internal/client/models"
)

// countArg reads an optional positive count from args; 0 means the server
// default.
func countArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a positive number", args[0])
	}
	return n, nil
}

// Chat sends the words after "chat" or, with none, asks for the message.
func (a *App) Chat(ctx context.Context, args []string) error {
	msg := strings.Join(args, " ")
	if msg == "" {
		var err error
		if msg, err = a.ask("Message"); err != nil {
			return err
		}
	}
	if msg == "" {
		return errors.New("message is empty")
	}

	reply, err := a.api.Chat(ctx, msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "MindCare: %s\n", reply)
	return nil
}

// History prints the conversation, or wipes it with "history clear".
func (a *App) History(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		if err := a.api.ClearChat(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Chat history cleared")
		return nil
	}

	msgs, err := a.api.ChatHistory(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages yet")
		return nil
	}
	for _, m := range msgs {
		fmt.Fprintf(a.out, "[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Role, m.Content)
	}
	return nil
}

func (a *App) Journal(ctx context.Context, _ []string) error {
	title, err := a.ask("Title (optional)")
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "What's on your mind?", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		return errors.New("journal entry is empty")
	}

	s, err := a.ask("Mood rating (1-10)")
	if err != nil {
		return err
	}
	rating, err := scale("mood rating", s)
	if err != nil {
		return err
	}

	s, err = a.ask("Keep private? (Y/n)")
	if err != nil {
		return err
	}
	private := yesNo(s, true)

	date, err := a.ask("Entry date YYYY-MM-DD (optional, default today)")
	if err != nil {
		return err
	}

	e, err := a.api.CreateJournal(ctx, models.JournalEntry{
		Title:      title,
		Content:    content,
		MoodRating: rating,
		IsPrivate:  &private,
		EntryDate:  date,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved journal entry #%d %q\n", e.ID, e.Title)
	return nil
}

func (a *App) Journals(ctx context.Context, args []string) error {
	n, err := countArg(args)
	if err != nil {
		return err
	}
	entries, err := a.api.Journal(ctx, n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No journal entries yet")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "#%d %s  %s  mood %d/10\n", e.ID, e.EntryDate, e.Title, e.MoodRating)
		fmt.Fprintf(a.out, "    %s\n", preview(e.Content, 80))
	}
	return nil
}

func (a *App) Reflect(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: reflect <entry id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not an entry id", args[0])
	}
	text, err := a.api.Reflect(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, text)
	return nil
}

func (a *App) Mood(ctx context.Context, _ []string) error {
	var e models.MoodEntry
	for _, q := range []struct {
		prompt string
		name   string
		dst    *int
	}{
		{"Mood (1-10)", "mood", &e.MoodScale},
		{"Energy level (1-10)", "energy level", &e.EnergyLevel},
		{"Anxiety level (1-10)", "anxiety level", &e.AnxietyLevel},
		{"Sleep quality (1-10)", "sleep quality", &e.SleepQuality},
	} {
		s, err := a.ask(q.prompt)
		if err != nil {
			return err
		}
		if *q.dst, err = scale(q.name, s); err != nil {
			return err
		}
	}

	notes, err := a.ask("Notes (optional)")
	if err != nil {
		return err
	}
	e.Notes = notes

	saved, err := a.api.CreateMood(ctx, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mood logged for %s\n", saved.EntryDate)
	return nil
}

func (a *App) Moods(ctx context.Context, args []string) error {
	n, err := countArg(args)
	if err != nil {
		return err
	}
	entries, err := a.api.Moods(ctx, n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No mood entries yet")
		return nil
	}
	fmt.Fprintln(a.out, "date        mood energy anxiety sleep")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-10s  %4d %6d %7d %5d  %s\n", e.EntryDate, e.MoodScale, e.EnergyLevel, e.AnxietyLevel, e.SleepQuality, e.Notes)
	}
	return nil
}

func (a *App) Trend(ctx context.Context, args []string) error {
	n, err := countArg(args)
	if err != nil {
		return err
	}
	points, err := a.api.Trend(ctx, n)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintln(a.out, "No mood entries yet")
		return nil
	}
	for _, p := range points {
		fmt.Fprintf(a.out, "%-10s %-10s %d\n", p.EntryDate, strings.Repeat("#", p.MoodScale), p.MoodScale)
	}
	return nil
}

func (a *App) Insights(ctx context.Context, _ []string) error {
	ins, err := a.api.Insights(ctx)
	if err != nil {
		return err
	}
	s := ins.Summary
	if s.Entries > 0 {
		fmt.Fprintf(a.out, "Last %d entries: mood %.1f, energy %.1f, anxiety %.1f, sleep %.1f\n",
			s.Entries, s.MoodScale, s.EnergyLevel, s.AnxietyLevel, s.SleepQuality)
	}
	fmt.Fprintln(a.out, ins.Insights)
	return nil
}

func (a *App) Tips(ctx context.Context, _ []string) error {
	tips, err := a.api.Tips(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tips)
	return nil
}

func (a *App) Affirmation(ctx context.Context, _ []string) error {
	text, err := a.api.Affirmation(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\"%s\"\n", text)
	return nil
}

func (a *App) Breathing(ctx context.Context, _ []string) error {
	b, err := a.api.Breathing(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, b.Name)
	if b.Description != "" {
		fmt.Fprintln(a.out, b.Description)
	}
	for i, step := range b.Steps {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, step)
	}
	return nil
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
