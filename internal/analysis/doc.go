// Package analysis inspects frame streams after the fact.
//
// [Probe] decodes a P6 stream and reports its geometry, per-frame mean
// luminance and how many frames repeat their predecessor. The luminance
// series feeds [PowerSpectrum] and [DominantPeriod], which expose periodic
// scenes:
//
//	report, err := analysis.Probe(stream.NewDecoder(os.Stdin))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(analysis.DominantPeriod(report.Luma))
package analysis
