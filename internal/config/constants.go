package config

// Extension component file names. The unpacker writes these and the
// analysis driver looks them up, so they live in one place.
const (
	ManifestName      = "manifest.json"
	ContentScriptName = "contentscript.js"
	BackgroundName    = "background.js"
	WarsName          = "wars.js"
)

// Analysis output file names.
const (
	AnalysisName      = "analysis.json"
	WarAnalysisSuffix = "-war.json"
)

const CrxFileExt = ".crx"

// Supported manifest versions. Themes and anything outside this range are
// skipped during unpacking.
const (
	ManifestV2 = 2
	ManifestV3 = 3
)

// Worker limits for directory-mode unpacking.
const (
	DefaultUnpackWorkers = 1
	MaxUnpackWorkers     = 10
)

// Sensitive-API selection presets.
const (
	APIsPermissions = "permissions"
	APIsAll         = "all"
	APIsEmpoweb     = "empoweb"
)
