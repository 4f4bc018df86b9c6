// Package view renders coordinator snapshots as terminal text.
package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aanand-mishra/student-contacts/internal/coordinator"
	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/fatih/color"
)

var (
	faint   = color.New(color.Faint)
	warn    = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
	heading = color.New(color.Bold)
)

// Status writes a one-line summary of the fetch phase.
func Status(w io.Writer, s coordinator.Snapshot) {
	switch s.Phase {
	case coordinator.PhaseIdle:
		faint.Fprintln(w, "Roster not loaded.")
	case coordinator.PhaseLoading:
		if s.Attempt > 0 {
			warn.Fprintf(w, "Loading roster... (retry %d)\n", s.Attempt)
			return
		}
		faint.Fprintln(w, "Loading roster...")
	case coordinator.PhaseSuccess:
		if s.Query != "" {
			faint.Fprintf(w, "%d of %d students match %q\n", len(s.Filtered), len(s.Roster), s.Query)
			return
		}
		faint.Fprintf(w, "%d students\n", len(s.Roster))
	case coordinator.PhaseError:
		reason := "unknown error"
		if s.Err != nil {
			reason = s.Err.Error()
		}
		failure.Fprintf(w, "Could not load roster: %s\n", reason)
		if s.CanRetry() {
			fmt.Fprintln(w, "Retry to load the roster again.")
		}
	}
}

// List writes records as an aligned table.
func List(w io.Writer, records []types.StudentRecord) error {
	if len(records) == 0 {
		faint.Fprintln(w, "No students found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	heading.Fprintln(tw, "ID\tNAME\tROLL NO\tDEPARTMENT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.RollNumber, r.Department)
	}
	return tw.Flush()
}

// Detail writes every field of one record.
func Detail(w io.Writer, rec types.StudentRecord, notFound bool) error {
	heading.Fprintln(w, rec.Name)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fields := []struct{ label, value string }{
		{"Roll No", rec.RollNumber},
		{"Department", rec.Department},
		{"Email", rec.Email},
		{"Address", rec.Address},
		{"Lab", rec.LabName},
		{"Accommodation", string(rec.Accommodation)},
	}
	for _, f := range fields {
		v := f.value
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(tw, "  %s:\t%s\n", f.label, v)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if notFound {
		warn.Fprintln(w, "Could not refresh this record; showing the roster copy.")
	}
	return nil
}
