package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/serene/internal/models"
)

// CheckinFormModel backs the check-in form; huh binds to its fields.
type CheckinFormModel struct {
	Mood   int
	Energy int
	Sleep  string
	Text   string
}

func NewCheckinFormModel(d models.CheckinDraft) *CheckinFormModel {
	return &CheckinFormModel{
		Mood:   d.Mood,
		Energy: d.Energy,
		Sleep:  strconv.FormatFloat(d.SleepHours, 'f', -1, 64),
		Text:   d.Text,
	}
}

// Draft converts the form values into a validated draft.
func (fm *CheckinFormModel) Draft() (models.CheckinDraft, error) {
	sleep, err := parseSleep(fm.Sleep)
	if err != nil {
		return models.CheckinDraft{}, err
	}
	d := models.CheckinDraft{
		Mood:       fm.Mood,
		Energy:     fm.Energy,
		SleepHours: sleep,
		Text:       strings.TrimSpace(fm.Text),
	}
	return d, d.Validate()
}

func parseSleep(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("sleep must be a number of hours")
	}
	return v, nil
}

func ratingOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, models.MaxRating)
	for i := models.MinRating; i <= models.MaxRating; i++ {
		opts = append(opts, huh.NewOption(strconv.Itoa(i), i))
	}
	return opts
}

// NewCheckinForm creates the daily check-in form
func NewCheckinForm(fm *CheckinFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Mood").
				Options(ratingOptions()...).
				Value(&fm.Mood),
			huh.NewSelect[int]().
				Title("Energy").
				Options(ratingOptions()...).
				Value(&fm.Energy),
			huh.NewInput().
				Title("Sleep (hours)").
				Description("In half-hour steps, e.g. 7.5").
				Value(&fm.Sleep).
				Validate(func(s string) error {
					v, err := parseSleep(s)
					if err != nil {
						return err
					}
					probe := models.DefaultDraft()
					probe.SleepHours = v
					return probe.Validate()
				}),
			huh.NewText().
				Title("Notes").
				Placeholder("How are you feeling?").
				Value(&fm.Text),
		),
	).WithTheme(huh.ThemeDracula())
}

// ConfirmFormModel backs a yes/no confirmation.
type ConfirmFormModel struct {
	Message   string
	Confirmed bool
}

// NewConfirmForm creates a yes/no confirmation form
func NewConfirmForm(fm *ConfirmFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
