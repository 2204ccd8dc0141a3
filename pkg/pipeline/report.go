package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// MarshalJSON adds the projection error, if any, as a string.
func (v Vertex) MarshalJSON() ([]byte, error) {
	type plain Vertex
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(v)}
	if v.Err != nil {
		out.Error = v.Err.Error()
	}
	return json.Marshal(out)
}

// WriteJSON writes the report as indented JSON.
func (rep *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText writes a table of vertices followed by the bounding box.
func (rep *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "camera\t%s\n", rep.Camera)
	fmt.Fprintf(tw, "resolution\t%dx%d\n\n", rep.ResolutionX, rep.ResolutionY)

	fmt.Fprintln(tw, "OBJECT\tVERTEX\tNDC X\tNDC Y\tPIXEL X\tPIXEL Y\tVISIBLE")
	for _, v := range rep.Vertices {
		if !v.OK() {
			fmt.Fprintf(tw, "%s\t%d\t-\t-\t-\t-\t%v\n", v.Object, v.Index, v.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.6f\t%.2f\t%.2f\t%t\n",
			v.Object, v.Index, v.NDC.X, v.NDC.Y, v.Pixel.X, v.Pixel.Y, v.Visible)
	}
	fmt.Fprintln(tw)

	if rep.Empty {
		fmt.Fprintln(tw, "box\tempty")
	} else {
		fmt.Fprintf(tw, "box\t%s\n", rep.Box)
		fmt.Fprintf(tw, "size\t%.2f x %.2f\n", rep.Box.Width(), rep.Box.Height())
	}
	if rep.Skipped > 0 {
		fmt.Fprintf(tw, "skipped\t%d\n", rep.Skipped)
	}
	return tw.Flush()
}
