package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/astropc/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHAPTER\tTIME\tINTEG\tTABLES\tROWS")

	for _, run := range runs {
		rows := 0
		for _, t := range run.Tables {
			rows += t.Rows
		}
		integ := run.Integrator
		if integ == "" {
			integ = "default"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Chapter,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			integ,
			len(run.Tables),
			rows,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadTable(runID, plotTable)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("chapter: %s\n", meta.Chapter)
	fmt.Printf("table: %s\n", table.Title)
	fmt.Printf("rows: %d\n\n", len(table.Rows))

	names := table.Names()
	if plotColumn != "" {
		names = []string{plotColumn}
	} else if len(names) > 1 {
		names = names[1:]
	}
	const maxPlots = 6
	if len(names) > maxPlots {
		names = names[:maxPlots]
	}

	for _, name := range names {
		values := table.Column(name)
		if values == nil {
			return fmt.Errorf("table %d has no column %q (have %v)", plotTable, name, table.Names())
		}
		data := finite(values)
		if len(data) < 2 {
			fmt.Printf("%s: not enough finite values to plot\n\n", name)
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0], csvTable)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}
