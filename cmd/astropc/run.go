package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/astropc/internal/config"
	"github.com/san-kum/astropc/internal/experiment"
	"github.com/san-kum/astropc/internal/report"
	"github.com/san-kum/astropc/internal/storage"
	"github.com/san-kum/astropc/internal/tui"
)

func loadRequest(chapter string, args []string) (experiment.Request, error) {
	req := experiment.Request{
		Chapter:    chapter,
		Args:       args,
		Preset:     preset,
		Integrator: integrator,
		MaxSteps:   maxSteps,
		NoPause:    noPause,
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return req, err
		}
		req.Config = cfg
	}
	return req, nil
}

func runChapter(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(args[0], args[1:])
	if err != nil {
		return err
	}

	paramPrompter, pausePrompter := prompters()
	exp, err := registry.Resolve(req, paramPrompter)
	if err != nil {
		return err
	}
	exp.Logger = logger
	if exp.Config.NoPause {
		pausePrompter = nil
	}

	rec := &report.Recorder{}
	if useTUI {
		err = tui.Run(cmd.Context(), exp.Chapter.Title(), func(ctx context.Context, out report.Emitter) error {
			return exp.Run(ctx, report.Tee(out, rec.Emitter()))
		})
	} else {
		console := report.NewConsole(os.Stdout, pausePrompter)
		fmt.Println(exp.Chapter.Title())
		err = exp.Run(cmd.Context(), report.Tee(console.Emitter(), rec.Emitter()))
	}
	if err != nil {
		return err
	}

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Chapter:    exp.Chapter.Name(),
		Integrator: exp.Config.Integrator,
		MaxSteps:   exp.Config.MaxSteps,
		Params:     exp.Config.Params,
	}, rec)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", runID, "tables", len(rec.Tables), "rows", rec.Rows())
	fmt.Fprintf(os.Stderr, "saved run: %s\n", runID)
	return nil
}

func listChapters(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tPARAMETERS")
	for _, ch := range registry.List() {
		keys := make([]string, 0, len(ch.Params()))
		for _, p := range ch.Params() {
			keys = append(keys, p.Key)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", ch.Name(), ch.Title(), strings.Join(keys, " "))
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	ch, err := registry.Get(args[0])
	if err != nil {
		return err
	}
	presets := config.ListPresets(ch.Name())
	if len(presets) == 0 {
		fmt.Printf("no presets for chapter: %s\n", ch.Name())
		return nil
	}
	fmt.Printf("presets for %s:\n", ch.Name())
	for _, name := range presets {
		p := config.GetPreset(ch.Name(), name)
		values := make([]string, 0, len(ch.Params()))
		for _, param := range ch.Params() {
			values = append(values, fmt.Sprintf("%s=%g", param.Key, p.Params[param.Key]))
		}
		fmt.Printf("  %-16s %s\n", name, strings.Join(values, " "))
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(args[0], nil)
	if err != nil {
		return err
	}
	req.NoPause = true

	paramPrompter, _ := prompters()
	exp, err := registry.Resolve(req, paramPrompter)
	if err != nil {
		return err
	}
	exp.Logger = logger

	runs, err := registry.Compare(cmd.Context(), exp, args[1:])
	if err != nil {
		return err
	}

	fmt.Printf("%s: last row of the last table\n\n", exp.Chapter.Title())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := false
	for _, c := range runs {
		table, last := c.Final()
		if table == nil {
			fmt.Fprintf(w, "%s\tno output\t\n", c.Integrator)
			continue
		}
		if !header {
			fmt.Fprintf(w, "INTEGRATOR\tROWS\t%s\t\n", strings.Join(table.Names(), "\t"))
			header = true
		}
		cells := make([]string, len(last))
		for i, v := range last {
			col := report.Column{Name: fmt.Sprint(i), Prec: 6, Sci: true}
			if i < len(table.Columns) {
				col = table.Columns[i]
				col.Width = 0
			}
			cells[i] = col.Format(v)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", c.Integrator, c.Recorder.Rows(), strings.Join(cells, "\t"))
	}
	return w.Flush()
}
