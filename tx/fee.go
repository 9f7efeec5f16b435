package tx

const (
	// DustLimit is the minimum P2PKH output value in satoshis.
	DustLimit = uint64(546)

	// DefaultFeeRate is the default fee rate in sat/KB.
	DefaultFeeRate = uint64(1)

	// Serialized sizes used for estimation: version + locktime + counts,
	// one signed P2PKH input, one P2PKH output.
	txOverheadSize  = 10
	p2pkhInputSize  = 148
	p2pkhOutputSize = 34
)

// EstimateTxSize estimates the size of a transaction spending numInputs
// P2PKH inputs into numOutputs P2PKH outputs.
func EstimateTxSize(numInputs, numOutputs int) int {
	return txOverheadSize + numInputs*p2pkhInputSize + numOutputs*p2pkhOutputSize
}

// EstimateFee returns ceil(size * feeRate / 1000). A zero rate uses
// DefaultFeeRate.
func EstimateFee(txSizeBytes int, feeRate uint64) uint64 {
	if feeRate == 0 {
		feeRate = DefaultFeeRate
	}
	fee := uint64(txSizeBytes) * feeRate
	return (fee + 999) / 1000
}
