package wellness

import (
	"errors"

	"github.com/julianstephens/serene/internal/checkin"
	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/models"
)

type CheckinCmd struct {
	Mood   *int     `help:"Mood from 1 to 10."`
	Energy *int     `help:"Energy from 1 to 10."`
	Sleep  *float64 `help:"Hours slept, in half-hour steps."`
	Note   string   `help:"Free-text note."`
	Form   bool     `short:"i" help:"Fill in the check-in interactively."`
}

func (c *CheckinCmd) interactive() bool {
	return c.Form || (c.Mood == nil && c.Energy == nil && c.Sleep == nil && c.Note == "")
}

func (c *CheckinCmd) draft() models.CheckinDraft {
	d := models.DefaultDraft()
	if c.Mood != nil {
		d.Mood = *c.Mood
	}
	if c.Energy != nil {
		d.Energy = *c.Energy
	}
	if c.Sleep != nil {
		d.SleepHours = *c.Sleep
	}
	d.Text = c.Note
	return d
}

func (c *CheckinCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	draft := c.draft()
	if c.interactive() {
		fm := cli.NewCheckinFormModel(draft)
		if err := cli.NewCheckinForm(fm).Run(); err != nil {
			return err
		}
		if draft, err = fm.Draft(); err != nil {
			return err
		}
	}

	svc.Checkin.SetDraft(draft)
	err = svc.Checkin.Submit(ctx.Context())
	status, msg := svc.Checkin.Status()
	switch status {
	case checkin.StatusSuccess:
		ctx.Println(cli.SuccessStyle.Render("✓ " + msg))
		ctx.Printf("\n%s", cli.FormatDashboard(svc.Dashboard.State()))
		return nil
	default:
		if err == nil {
			err = errors.New(msg)
		}
		ctx.Println(cli.ErrorStyle.Render("❌ " + msg))
		return err
	}
}
