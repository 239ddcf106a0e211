package db

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func writeCmdOut(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		cmd.PrintErrf("write output: %v\n", err)
		return err
	}
	return nil
}

func render(w io.Writer, format string, r *report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return renderText(w, r)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderText(w io.Writer, r *report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Mode:\t%s\n", r.Mode)
	fmt.Fprintf(tw, "Path:\t%s\n", r.Path)
	fmt.Fprintf(tw, "Initialized:\t%t\n", r.Initialized)

	if len(r.Tables) > 0 {
		fmt.Fprintln(tw, "\nTABLE\tPRESENT")
		for _, t := range r.Tables {
			fmt.Fprintf(tw, "%s\t%t\n", t.Name, t.Present)
		}
	}

	if len(r.Migrations) > 0 {
		fmt.Fprintln(tw, "\nMIGRATION\tNAME\tAPPLIED")
		for _, m := range r.Migrations {
			applied := "pending"
			if m.AppliedAt != nil {
				applied = m.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", m.ID, m.Name, applied)
		}
	}

	return tw.Flush()
}
