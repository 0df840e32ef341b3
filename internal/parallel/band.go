package parallel

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Bands splits height rows into consecutive bands of at most rowsPerBand
// rows. The last band may be shorter. Returns nil if height <= 0.
// rowsPerBand < 1 is treated as 1.
func Bands(height, rowsPerBand int) []Band {
	if height <= 0 {
		return nil
	}
	rowsPerBand = max(rowsPerBand, 1)

	bands := make([]Band, 0, (height+rowsPerBand-1)/rowsPerBand)
	for y := 0; y < height; y += rowsPerBand {
		bands = append(bands, Band{Y0: y, Y1: min(y+rowsPerBand, height)})
	}
	return bands
}

// RowsPerBand picks a band height that gives each worker several bands,
// so that stealing can balance uneven rows.
func RowsPerBand(height, workers int) int {
	const bandsPerWorker = 4
	if workers < 1 {
		workers = 1
	}
	return max(height/(workers*bandsPerWorker), 1)
}
