package journals

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/julianstephens/serene/internal/cli"
	apperrors "github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/journal"
	"github.com/julianstephens/serene/internal/models"
)

type JournalCmd struct {
	List   JournalListCmd   `cmd:"" help:"List journal entries, oldest first." default:"1"`
	Add    JournalAddCmd    `cmd:"" help:"Write a journal entry."`
	Delete JournalDeleteCmd `cmd:"" help:"Delete a journal entry."`
}

type JournalListCmd struct{}

func (c *JournalListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Services()
	if err != nil {
		return err
	}
	if err := svc.Journal.Load(ctx.Context()); err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	entries := svc.Journal.Entries()
	if len(entries) == 0 {
		ctx.Println(cli.MutedStyle.Render("No journal entries yet."))
		return nil
	}
	for _, e := range entries {
		ctx.Println(cli.FormatEntry(e))
	}
	return nil
}

type JournalAddCmd struct {
	Content []string `arg:"" optional:"" help:"Entry text. Read from stdin when omitted."`
}

func (c *JournalAddCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	content := strings.Join(c.Content, " ")
	if len(c.Content) == 0 {
		data, err := io.ReadAll(ctx.Stdin())
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}
		content = string(data)
	}

	svc.Journal.SetComposer(strings.TrimSpace(content))
	err = svc.Journal.Create(ctx.Context())
	switch {
	case errors.Is(err, journal.ErrEmptyContent):
		return errors.New("journal entry cannot be empty")
	case apperrors.Is(err, apperrors.KindSourceUnavailable):
		ctx.Println(cli.SuccessStyle.Render("✓ Journal entry saved"))
		ctx.Println(cli.MutedStyle.Render("Could not refresh the journal; run 'serene journal list' to see it."))
		return nil
	case err != nil:
		return fmt.Errorf("failed to save journal entry: %w", err)
	}

	ctx.Println(cli.SuccessStyle.Render("✓ Journal entry saved"))
	entries := svc.Journal.Entries()
	if len(entries) > 0 {
		ctx.Println(cli.FormatEntry(entries[len(entries)-1]))
	}
	return nil
}

type JournalDeleteCmd struct {
	ID  string `arg:"" help:"Entry id as shown by 'serene journal list'."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *JournalDeleteCmd) Run(ctx *cli.Context) error {
	id, err := models.ParseWireID(c.ID)
	if err != nil {
		return fmt.Errorf("invalid entry id: %w", err)
	}

	svc, err := ctx.Services()
	if err != nil {
		return err
	}
	if err := svc.Journal.Load(ctx.Context()); err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	err = svc.Journal.Delete(ctx.Context(), id, c.confirmer(ctx))
	switch {
	case errors.Is(err, journal.ErrCancelled):
		ctx.Println("Cancelled.")
		return nil
	case err != nil:
		ctx.Println(cli.ErrorStyle.Render("❌ Failed to delete entry"))
		return err
	}

	ctx.Println(cli.SuccessStyle.Render("✓ Journal entry deleted"))
	return nil
}

func (c *JournalDeleteCmd) confirmer(ctx *cli.Context) journal.Confirmer {
	if c.Yes {
		return journal.ConfirmFunc(func(context.Context, models.JournalEntry) (bool, error) { return true, nil })
	}
	if ctx.In != nil {
		// Non-interactive input: read a y/n line.
		return journal.ConfirmFunc(func(_ context.Context, e models.JournalEntry) (bool, error) {
			ctx.Printf("%s\n%s [y/N] ", cli.FormatEntry(e), cli.DeleteConfirmPrompt)
			line, err := bufio.NewReader(ctx.In).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return false, err
			}
			answer := strings.ToLower(strings.TrimSpace(line))
			return answer == "y" || answer == "yes", nil
		})
	}
	return journal.ConfirmFunc(func(_ context.Context, e models.JournalEntry) (bool, error) {
		fm := &cli.ConfirmFormModel{Message: cli.DeleteConfirmPrompt}
		ctx.Println(cli.FormatEntry(e))
		if err := cli.NewConfirmForm(fm).Run(); err != nil {
			return false, err
		}
		return fm.Confirmed, nil
	})
}
