package billboard

import "errors"

// Pass errors.
var (
	// ErrProgramBuild is returned from Execute when the program permutation
	// cannot be compiled.
	ErrProgramBuild = errors.New("billboard: failed to build program")

	// ErrSampleGeneratorBind is returned from Execute when the sample
	// generator cannot bind its shader data to a fresh variable set.
	ErrSampleGeneratorBind = errors.New("billboard: failed to bind sample generator")

	// ErrUnknownFootprintMode is returned when a dictionary names a
	// footprint mode the pass does not support.
	ErrUnknownFootprintMode = errors.New("billboard: unknown ray footprint mode")

	// ErrInvalidOption is returned when a dictionary value has the wrong type.
	ErrInvalidOption = errors.New("billboard: invalid option value")

	// ErrUnknownBlock is returned when setting a constant in a block the
	// program does not declare.
	ErrUnknownBlock = errors.New("billboard: unknown constant block")
)
