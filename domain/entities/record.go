package entities

// Basic field keys of the haemodialysis treatment record
const (
	FieldDate        = "DATE"
	FieldNumberOfHD  = "NUMBER_OF_HD"
	FieldHrsOfHD     = "HRS_OF_HD"
	FieldPreBP       = "PRE_BP"
	FieldPostBP      = "POST_BP"
	FieldPrePulse    = "PRE_PULSE"
	FieldTemperature = "TEMPERATURE"
	FieldPreWeight   = "PRE_WEIGHT"
	FieldIDWG        = "IDWG"
	FieldPostWeight  = "POST_WEIGHT"
	FieldUF          = "UF"
	FieldKtV         = "KT_V"
	FieldWeightLoss  = "WEIGHT_LOSS"
	FieldComfortable = "COMFORTABLE"
	FieldDizziness   = "DIZZINESS"
	FieldBleeding    = "BLEEDING"
	FieldDressing    = "DRESSING"
	FieldRemarks     = "REMARKS"
)

// Hourly observation keys, in the column order of the observation table
const (
	HourlyTime  = "TIME"
	HourlyBP    = "BP"
	HourlyVP    = "VP"
	HourlyQB    = "QB"
	HourlyQD    = "QD"
	HourlyPulse = "PULSE"
	HourlyUFR   = "UFR"
)

// BasicFields is the closed vocabulary of basic record keys
var BasicFields = []string{
	FieldDate, FieldNumberOfHD, FieldHrsOfHD, FieldPreBP, FieldPostBP,
	FieldPrePulse, FieldTemperature, FieldPreWeight, FieldIDWG, FieldPostWeight,
	FieldUF, FieldKtV, FieldWeightLoss, FieldComfortable, FieldDizziness,
	FieldBleeding, FieldDressing, FieldRemarks,
}

// HourlyFields is the closed vocabulary of hourly observation keys
var HourlyFields = []string{
	HourlyTime, HourlyBP, HourlyVP, HourlyQB, HourlyQD, HourlyPulse, HourlyUFR,
}

// SelectFields are the categorical fields rendered as drop-downs in the portal
var SelectFields = map[string]bool{
	FieldComfortable: true,
	FieldDizziness:   true,
	FieldBleeding:    true,
	FieldDressing:    true,
}

// HourlyObservation is one row of the machine-screen observation table
type HourlyObservation map[string]string

// RecordData is the transcribed treatment record handed to the workflow
type RecordData struct {
	Basic  map[string]string   `json:"basic_data"`
	Hourly []HourlyObservation `json:"hourly_observations"`
}

// FieldValue is a single key/value pair of a record
type FieldValue struct {
	Key   string
	Value string
}

// BasicEntries - returns non-empty known basic fields in vocabulary order
func (r RecordData) BasicEntries() []FieldValue {
	entries := make([]FieldValue, 0, len(r.Basic))
	for _, key := range BasicFields {
		if value := r.Basic[key]; value != "" {
			entries = append(entries, FieldValue{Key: key, Value: value})
		}
	}
	return entries
}

// UnknownKeys - returns basic and hourly keys outside the fixed vocabulary
func (r RecordData) UnknownKeys() []string {
	known := make(map[string]bool, len(BasicFields)+len(HourlyFields))
	for _, k := range BasicFields {
		known[k] = true
	}
	var unknown []string
	for k := range r.Basic {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}

	hourly := make(map[string]bool, len(HourlyFields))
	for _, k := range HourlyFields {
		hourly[k] = true
	}
	for _, row := range r.Hourly {
		for k := range row {
			if !hourly[k] {
				unknown = append(unknown, k)
			}
		}
	}
	return unknown
}

// Entries - returns non-empty known keys of the observation in column order
func (h HourlyObservation) Entries() []FieldValue {
	entries := make([]FieldValue, 0, len(h))
	for _, key := range HourlyFields {
		if value := h[key]; value != "" {
			entries = append(entries, FieldValue{Key: key, Value: value})
		}
	}
	return entries
}
