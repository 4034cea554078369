package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"demodeck/internal/ui/textutil"
	"demodeck/internal/vercel"
)

// APIFlags selects the proxy the API commands talk to.
type APIFlags struct {
	BaseURL string `name:"base-url" help:"Proxy base URL (overrides api.base_url)"`
}

func (f APIFlags) client(g *Globals) (*vercel.Client, error) {
	base := g.Config.API.BaseURL
	if f.BaseURL != "" {
		base = f.BaseURL
	}
	return vercel.NewClient(base, vercel.WithTimeout(g.Config.API.Timeout))
}

func requestContext(g *Globals) (context.Context, context.CancelFunc) {
	timeout := g.Config.API.Timeout
	if timeout <= 0 {
		timeout = vercel.DefaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ProjectsCmd lists teams and their projects.
type ProjectsCmd struct {
	APIFlags
	Team string `help:"Only list projects of this team ID"`
}

func (p *ProjectsCmd) Run(g *Globals) error {
	client, err := p.client(g)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(g)
	defer cancel()

	teams, err := client.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	projects, err := client.ListProjects(ctx, p.Team)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	widths := []int{18, 22, 10, 12}
	fmt.Fprintln(g.Out, textutil.Row(widths, "ID", "NAME", "FRAMEWORK", "TEAM"))
	for _, pr := range projects {
		fmt.Fprintln(g.Out, textutil.Row(widths, pr.ID, pr.Name, pr.Framework, names[pr.TeamID]))
	}
	return nil
}

// EnvCmd groups the environment variable subcommands.
type EnvCmd struct {
	List EnvListCmd `cmd:"" help:"List a project's environment variables"`
	Add  EnvAddCmd  `cmd:"" help:"Create an environment variable"`
}

// EnvListCmd prints a project's variables with non-plain values masked.
type EnvListCmd struct {
	APIFlags
	Project string `arg:"" help:"Project ID"`
}

func (e *EnvListCmd) Run(g *Globals) error {
	client, err := e.client(g)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(g)
	defer cancel()

	envs, err := client.ListEnv(ctx, e.Project)
	if err != nil {
		return fmt.Errorf("list env: %w", err)
	}
	if len(envs) == 0 {
		fmt.Fprintln(g.Out, "no environment variables")
		return nil
	}
	widths := []int{24, 10, 30, 16, 16}
	fmt.Fprintln(g.Out, textutil.Row(widths, "KEY", "TYPE", "TARGET", "VALUE", "CREATED"))
	for _, ev := range envs {
		value := ev.Value
		if ev.Type != vercel.EnvPlain {
			value = textutil.Mask(value)
		}
		created := ""
		if ev.CreatedAt > 0 {
			created = time.UnixMilli(ev.CreatedAt).UTC().Format("2006-01-02 15:04")
		}
		fmt.Fprintln(g.Out, textutil.Row(widths, ev.Key, ev.Type, strings.Join(ev.Target, ","), value, created))
	}
	return nil
}

// EnvAddCmd creates one variable.
type EnvAddCmd struct {
	APIFlags
	Project string   `arg:"" help:"Project ID"`
	Key     string   `arg:"" help:"Variable name"`
	Value   string   `arg:"" help:"Variable value"`
	Type    string   `help:"Variable type" enum:"encrypted,plain,secret,sensitive" default:"encrypted"`
	Target  []string `help:"Deployment targets: production, preview, development (default: all)"`
}

func (e *EnvAddCmd) Run(g *Globals) error {
	client, err := e.client(g)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(g)
	defer cancel()

	created, err := client.CreateEnv(ctx, e.Project, vercel.CreateEnvRequest{
		Key:    e.Key,
		Value:  e.Value,
		Type:   e.Type,
		Target: e.Target,
	})
	if err != nil {
		return fmt.Errorf("create env: %w", err)
	}
	fmt.Fprintf(g.Out, "created %s (%s) for %s [%s]\n",
		created.Key, created.Type, e.Project, strings.Join(created.Target, ", "))
	return nil
}
