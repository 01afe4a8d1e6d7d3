// Package all registers every container decoder with dtex.
//
//	import _ "github.com/jpfielding/dtex.go/pkg/dtex/all"
package all

import (
	_ "github.com/jpfielding/dtex.go/pkg/dtex/astc"
	_ "github.com/jpfielding/dtex.go/pkg/dtex/dds"
	_ "github.com/jpfielding/dtex.go/pkg/dtex/ktx"
	_ "github.com/jpfielding/dtex.go/pkg/dtex/ktx2"
	_ "github.com/jpfielding/dtex.go/pkg/dtex/pkm"
)
