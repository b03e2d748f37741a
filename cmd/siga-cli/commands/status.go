package commands

import (
	"errors"
	"fmt"
	"os"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/checkpoint"
	"sigahorarios/internal/chrono"
	"sigahorarios/internal/importer"
	"sigahorarios/internal/snapshot"
	"sigahorarios/lib/serviceutil"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusSubjects *bool

func init() {
	statusSubjects = statusCmd.Flags().Bool("subjects", false, "List the sections of every subject.")
	rootCmd.AddCommand(statusCmd)
}

// periodSummary counts what a snapshot holds for one campus and period.
type periodSummary struct {
	Campus   string
	Period   string
	Subjects int
	Sections int
	Slots    int
}

type subjectSummary struct {
	Code     string
	Name     string
	Sections int
	Slots    int
}

func summarize(tree catalog.Catalog) []periodSummary {
	out := []periodSummary{}
	for campus, periods := range tree {
		for period, subjects := range periods {
			s := periodSummary{Campus: campus, Period: period, Subjects: len(subjects)}
			for _, sections := range subjects {
				s.Sections += len(sections)
				for _, section := range sections {
					s.Slots += len(section.Schedule.Slots())
				}
			}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Campus != out[j].Campus {
			return out[i].Campus < out[j].Campus
		}
		return out[i].Period < out[j].Period
	})
	return out
}

func summarizeSubjects(period catalog.Period) []subjectSummary {
	out := []subjectSummary{}
	for code, sections := range period {
		s := subjectSummary{Code: code, Sections: len(sections)}
		if len(sections) > 0 {
			s.Name = sections[0].Name
		}
		for _, section := range sections {
			s.Slots += len(section.Schedule.Slots())
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out
}

func displayPeriod(code string) string {
	parsed, err := catalog.ParsePeriodCode(code)
	if err != nil {
		return code
	}
	return parsed.Display()
}

var statusCmd = &cobra.Command{
	Use:   "status [path/to/snapshot.json]",
	Short: "Shows the checkpoint of an interrupted run and what a snapshot contains.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		cp, err := checkpoint.Read(cfg.Scrape.CheckpointFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
			fmt.Println("No interrupted run.")
		case err != nil:
			serviceutil.Fatal("failed to read checkpoint", err)
		default:
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Campus", "Period", "Next row", "Snapshot"})
			t.AppendRow(table.Row{cp.Campus, displayPeriod(cp.Period), cp.NextRow(), cp.SnapshotPath})
			t.SetStyle(table.StyleRounded)
			t.Render()
		}

		lastImport, err := importer.ReadLastImport(cfg.Scrape.LastImportFile, chrono.Santiago())
		if err == nil {
			fmt.Printf("Last import: %s\n", lastImport.Format("2006-01-02 15:04:05"))
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			path, err = snapshot.Latest(cfg.Scrape.OutputDir)
			if errors.Is(err, snapshot.ErrNoSnapshot) {
				fmt.Println("No snapshot found.")
				return
			}
			if err != nil {
				serviceutil.Fatal("failed to find a snapshot", err)
			}
		}
		tree, err := snapshot.Load(path)
		if err != nil {
			serviceutil.Fatal("failed to load snapshot", err)
		}

		fmt.Printf("Snapshot: %s\n", path)
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Campus", "Period", "Subjects", "Sections", "Scheduled blocks"})
		for _, s := range summarize(tree) {
			t.AppendRow(table.Row{s.Campus, displayPeriod(s.Period), s.Subjects, s.Sections, s.Slots})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		if !*statusSubjects {
			return
		}
		for _, s := range summarize(tree) {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetTitle(fmt.Sprintf("%s %s", s.Campus, displayPeriod(s.Period)))
			t.AppendHeader(table.Row{"Code", "Name", "Sections", "Scheduled blocks"})
			for _, subject := range summarizeSubjects(tree[s.Campus][s.Period]) {
				t.AppendRow(table.Row{subject.Code, subject.Name, subject.Sections, subject.Slots})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
		}
	},
}
