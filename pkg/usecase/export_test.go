package usecase

var (
	BuildTrace         = buildTrace
	DimensionSummaries = dimensionSummaries
	NormalizeFactors   = normalizeFactors
)
