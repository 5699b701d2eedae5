package keyer

// Side tone amplitudes for the volume pot, from silence to full scale in
// roughly logarithmic steps.
var (
	// 21 steps of about 2 dB.
	volTab21 = []float64{
		0.000, 0.0126, 0.0158, 0.0200, 0.0251, 0.0316, 0.0398, 0.0501, 0.0631, 0.0794,
		0.100, 0.1258, 0.1585, 0.1995, 0.2511, 0.3162, 0.3981, 0.5012, 0.6309, 0.7943, 1.0000,
	}
	// 32 steps of 1.5 dB.
	volTab32 = []float64{
		0.000, 0.0056, 0.0067, 0.0079, 0.0094, 0.0112, 0.0133, 0.0158, 0.0188, 0.0224, 0.0266,
		0.0316, 0.0376, 0.0447, 0.0531, 0.0631, 0.0750, 0.0891, 0.1059, 0.1259, 0.1496,
		0.1778, 0.2113, 0.2512, 0.2985, 0.3548, 0.4217, 0.5012, 0.5957, 0.7079, 0.8414, 1.0000,
	}
)

// volumeTable returns the table with the given number of steps. Anything
// other than 32 selects the 21 step table.
func volumeTable(steps int) []float64 {
	if steps == len(volTab32) {
		return volTab32
	}
	return volTab21
}
