package entities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabularySizes(t *testing.T) {
	assert.Len(t, BasicFields, 18)
	assert.Len(t, HourlyFields, 7)
	for key := range SelectFields {
		assert.Contains(t, BasicFields, key)
	}
}

func TestRecordData_BasicEntries(t *testing.T) {
	rec := RecordData{Basic: map[string]string{
		FieldRemarks: "stable",
		FieldDate:    "08-10-2025",
		FieldPreBP:   "",
		"UNKNOWN":    "ignored",
	}}

	assert.Equal(t, []FieldValue{
		{Key: FieldDate, Value: "08-10-2025"},
		{Key: FieldRemarks, Value: "stable"},
	}, rec.BasicEntries())
}

func TestRecordData_UnknownKeys(t *testing.T) {
	rec := RecordData{
		Basic:  map[string]string{FieldDate: "x", "COLOUR": "blue"},
		Hourly: []HourlyObservation{{HourlyTime: "07:10", "SPO2": "98"}},
	}
	assert.ElementsMatch(t, []string{"COLOUR", "SPO2"}, rec.UnknownKeys())
}

func TestHourlyObservation_Entries(t *testing.T) {
	obs := HourlyObservation{HourlyUFR: "625", HourlyTime: "07:10", HourlyBP: ""}
	assert.Equal(t, []FieldValue{
		{Key: HourlyTime, Value: "07:10"},
		{Key: HourlyUFR, Value: "625"},
	}, obs.Entries())
}

func TestCredentials_NeverFormatsPassword(t *testing.T) {
	creds := Credentials{Username: "alice", Password: "pw1"}

	for _, out := range []string{
		fmt.Sprintf("%v", creds),
		fmt.Sprintf("%+v", creds),
		fmt.Sprintf("%#v", creds),
		fmt.Sprint(creds),
	} {
		assert.NotContains(t, out, "pw1")
		assert.Contains(t, out, "alice")
	}
}
