// File: lixenwraith/cosima/base.go
package cosima

// BaseKeywords lists the global keywords in presentation order
var BaseKeywords = []string{
	"Geometry",
	"Version",
	"PhysicsListEM",
	"StoreSimulationInfo",
	"PreTriggerMode",
}

// BaseParams holds the global settings of a cosima run.
type BaseParams struct {
	Geometry            string `keyword:"Geometry" toml:"geometry" json:"geometry" yaml:"geometry"`
	Version             string `keyword:"Version" toml:"version" json:"version" yaml:"version"`
	PhysicsListEM       string `keyword:"PhysicsListEM" toml:"physics_list_em" json:"physics_list_em" yaml:"physics_list_em"`
	StoreSimulationInfo string `keyword:"StoreSimulationInfo" toml:"store_simulation_info" json:"store_simulation_info" yaml:"store_simulation_info"`
	PreTriggerMode      string `keyword:"PreTriggerMode" toml:"pre_trigger_mode" json:"pre_trigger_mode" yaml:"pre_trigger_mode"`
}

// NewBaseParams builds BaseParams from explicit values.
func NewBaseParams(geometry, version, physicsListEM, storeSimulationInfo, preTriggerMode string) *BaseParams {
	return &BaseParams{
		Geometry:            geometry,
		Version:             version,
		PhysicsListEM:       physicsListEM,
		StoreSimulationInfo: storeSimulationInfo,
		PreTriggerMode:      preTriggerMode,
	}
}

// ReadBaseParams reads the global settings from a source file.
func ReadBaseParams(path string, opts LoadOptions) (*BaseParams, error) {
	opts = opts.withDefaults()
	lines, err := ReadLines(path, opts.MaxFileSize)
	if err != nil {
		return nil, err
	}
	return ParseBaseParams(NewExtractor(lines, opts))
}

// ParseBaseParams extracts every keyword of BaseKeywords. It fails on the
// first missing or empty keyword.
func ParseBaseParams(ex *Extractor) (*BaseParams, error) {
	values := make(map[string]string, len(BaseKeywords))
	for _, keyword := range BaseKeywords {
		value, err := ex.Value(keyword)
		if err != nil {
			return nil, err
		}
		values[keyword] = value
	}

	var base BaseParams
	if err := decodeKeywords(values, &base); err != nil {
		return nil, err
	}
	return &base, nil
}

// List returns the settings in keyword order.
func (b *BaseParams) List() Params {
	return Params{
		{Key: "Geometry", Value: b.Geometry},
		{Key: "Version", Value: b.Version},
		{Key: "PhysicsListEM", Value: b.PhysicsListEM},
		{Key: "StoreSimulationInfo", Value: b.StoreSimulationInfo},
		{Key: "PreTriggerMode", Value: b.PreTriggerMode},
	}
}
