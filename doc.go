// File: lixenwraith/cosima/doc.go

// Package cosima reads and writes MEGAlib cosima source files: the line-oriented
// keyword/value files that describe a simulation run.
//
// A source file holds one statement per line, a keyword followed by one or more
// whitespace-separated value tokens. Lines containing the comment marker are
// dropped entirely.
//
//	Version                 1
//	Geometry                detector.geo.setup
//	PhysicsListEM           LivermorePol
//	StoreSimulationInfo     all
//	PreTriggerMode          everyeventwithhits
//
//	Run CrabRun
//	CrabRun.FileName        CrabOnly
//	CrabRun.OrientationSky  Galactic Fixed
//	CrabRun.Time            1000.0
//	CrabRun.Source          Crab
//
//	Crab.ParticleType       1
//	Crab.Beam               FarFieldPointSource
//	Crab.Orientation        Galactic Fixed 184.56 -5.78
//	Crab.Spectrum           PowerLaw 100 10000 2.2
//	Crab.Flux               0.05
//
// Run-scoped and source-scoped keywords are prefixed with the run and source
// names, so these names are resolved first and the remaining fields second.
//
// Quick Start:
//
//	f, err := cosima.Load("crab.source")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Move the source, keeping the "Galactic Fixed" prefix
//	if err := f.SetCoordinate(sky.Galactic{L: 10, B: -5}); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(f.ListAllParams().Grid())
//	err = f.Save("moved.source")
//
// Matching:
// By default an identifier selects the first line whose keyword token equals
// it. MatchSubstring reproduces the older reader, which selected the first line
// containing the identifier anywhere; line order then matters for keywords
// such as "Run" that occur inside other keywords.
//
// Save writes a two-column table that loads back to the same parameters.
// Snapshots in TOML, JSON or YAML are available through Export and SaveSnapshot,
// and Load reads them back by file extension.
package cosima
