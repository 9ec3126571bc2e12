package wellness

import (
	"github.com/julianstephens/serene/internal/cli"
)

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Services()
	if err != nil {
		return err
	}
	if !svc.Session.Authenticated(ctx.Context()) {
		ctx.Println("ℹ Not signed in. Use 'serene auth login --token' or 'serene auth bypass'")
		return nil
	}

	state := svc.Dashboard.Refresh(ctx.Context())
	ctx.Printf("%s", cli.FormatDashboard(state))
	return nil
}

type ReportCmd struct{}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	rep, err := svc.Report.Load(ctx.Context())
	if err != nil {
		ctx.Println(cli.ErrorStyle.Render("Weekly report is unavailable right now."))
		return nil
	}
	if rep == nil {
		ctx.Println(cli.MutedStyle.Render("No weekly report yet. Keep checking in!"))
		return nil
	}
	ctx.Printf("%s", cli.FormatReport(rep))
	return nil
}
