// Package table renders the summary of a run.
package table

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/scanflow/scanctl/internal/job"
	"github.com/scanflow/scanctl/internal/workflow"
)

var defaultTableStyle = table.Style{
	Name: "scanctl",
	Box: table.BoxStyle{
		BottomLeft:       "└",
		BottomRight:      "┘",
		BottomSeparator:  "",
		EmptySeparator:   text.RepeatAndTrim(" ", text.RuneCount("+")),
		Left:             "│",
		LeftSeparator:    "",
		MiddleHorizontal: "─",
		MiddleSeparator:  "",
		MiddleVertical:   "",
		PaddingLeft:      "  ",
		PaddingRight:     "  ",
		PageSeparator:    "\n",
		Right:            "│",
		RightSeparator:   "",
		TopLeft:          "┌",
		TopRight:         "┐",
		TopSeparator:     "",
		UnfinishedRow:    " ...",
	},
	Color: table.ColorOptionsDefault,
	Format: table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	},
	HTML: table.DefaultHTMLOptions,
	Options: table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  true,
		SeparateHeader:  true,
		SeparateRows:    false,
	},
	Title: table.TitleOptionsDefault,
}

// Reporter renders the outcome of a run to Dst.
type Reporter struct {
	// URL is the base url of the web UI.
	URL string
	Dst io.Writer
}

// Render renders out a summary table of res followed by links to the upload in the web UI.
func (r *Reporter) Render(res workflow.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Dst)
	t.SetStyle(defaultTableStyle)

	t.AppendHeader(table.Row{"", "Upload", "Folder", "Upload ID", "Job", "Status", "Group", "ETA", "Item", "Reuse"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Number:   0, // the first nameless column holds the status icon
			WidthMax: 1,
		},
		{
			Name:     "Upload",
			WidthMin: 20,
		},
	})

	// the order of values must match the order of the header
	t.AppendRow(table.Row{
		statusSymbol(res.Job.State),
		res.Upload.Name,
		res.FolderID,
		res.Upload.ID,
		res.Job.JobID,
		res.Job.State.Title(),
		optional(res.Job.GroupID),
		res.Job.ETA,
		optionalPtr(res.Upload.ItemID),
		baseline(res),
	})
	t.AppendFooter(table.Row{statusSymbol(res.Job.State), fmt.Sprintf("Unpacked after %d poll(s), scan scheduled", res.Job.Polls)})

	_, _ = fmt.Fprintln(r.Dst)
	t.Render()
	_, _ = fmt.Fprintln(r.Dst)

	for _, l := range Links(r.URL, res) {
		_, _ = fmt.Fprintf(r.Dst, "%s %s\n", color.New(color.Bold).Sprint("→"), l)
	}
}

// Links returns the web UI links of the upload in res. The license view is only linked if the item id is known.
func Links(base string, res workflow.Result) []string {
	base = strings.TrimSuffix(base, "/") + "/"

	browse := url.Values{}
	browse.Set("mod", "browse")
	browse.Set("folder", strconv.Itoa(res.FolderID))
	browse.Set("upload", strconv.Itoa(res.Upload.ID))
	links := []string{base + "?" + encode(browse, "mod", "folder", "upload")}

	if res.Upload.ItemID != nil {
		view := url.Values{}
		view.Set("mod", "view-license")
		view.Set("upload", strconv.Itoa(res.Upload.ID))
		view.Set("item", strconv.Itoa(*res.Upload.ItemID))
		links = append(links, base+"?"+encode(view, "mod", "upload", "item"))
	}

	return links
}

// encode is url.Values.Encode with a fixed key order instead of a sorted one.
func encode(v url.Values, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v.Get(k)))
	}
	return strings.Join(parts, "&")
}

func optional(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func optionalPtr(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func baseline(res workflow.Result) string {
	if res.Baseline == nil {
		return "-"
	}
	return fmt.Sprintf("%d (%s)", res.Baseline.UploadID, res.Baseline.Group)
}

func statusSymbol(state job.State) string {
	switch state {
	case job.StateCompleted:
		return color.GreenString("✔")
	case job.StateQueued, job.StateProcessing:
		return color.BlueString("*")
	default:
		return color.RedString("✖")
	}
}
