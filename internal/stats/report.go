package stats

import (
	"fmt"
	"io"
)

// RenderSummary prints a summary of the rounds finished in this run.
func RenderSummary(w io.Writer, results []Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No rounds finished.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	bestWPM := 0.0
	mistakes := 0
	wpms := make([]float64, len(results))
	for i, r := range results {
		totalWPM += r.WPM
		totalCPM += r.CPM
		totalAcc += r.Accuracy
		bestWPM = max(bestWPM, r.WPM)
		mistakes += r.Mistakes
		wpms[i] = r.WPM
	}
	count := float64(len(results))

	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", len(results)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Mistakes: %d", mistakes),
	}
	if len(results) > 1 {
		lines = append(lines, fmt.Sprintf("WPM trend: [%s]", Sparkline(wpms)))
	}
	lines = append(lines, "")

	headers := []string{"Round", "Time", "WPM", "CPM", "Mistakes", "Accuracy", "Words"}
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.1fs", r.Elapsed.Seconds()),
			fmt.Sprintf("%.0f", r.WPM),
			fmt.Sprintf("%.0f", r.CPM),
			fmt.Sprintf("%d", r.Mistakes),
			fmt.Sprintf("%.2f%%", r.Accuracy),
			fmt.Sprintf("%d", r.Words),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	lines = append(lines, formatTable(headers, rows, rightAlign)...)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
