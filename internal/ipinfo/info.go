package ipinfo

// Unknown is the sentinel used for any field that could not be determined.
const Unknown = "Unknown"

// Field names of an Info record, in display order.
const (
	FieldIP       = "ip"
	FieldCity     = "city"
	FieldRegion   = "region"
	FieldCountry  = "country"
	FieldTimezone = "timezone"
	FieldOrg      = "org"
)

// fieldNames lists the record fields in display order.
var fieldNames = []string{FieldIP, FieldCity, FieldRegion, FieldCountry, FieldTimezone, FieldOrg}

// Info is the geolocation record of an IP address.
// Every field holds a concrete value or Unknown; none is ever empty.
type Info struct {
	IP       string `json:"ip"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
	Org      string `json:"org"`

	// Extra is the decoded lookup response, nil for fallback records.
	// It lets callers pass through fields beyond the six above.
	Extra map[string]any `json:"-"`
}

// Field is a single name/value pair of an Info record.
type Field struct {
	Name  string
	Value string
}

// Fallback returns the record used when a lookup fails: the given IP
// (or Unknown when empty) and Unknown for everything else.
func Fallback(ip string) Info {
	if ip == "" {
		ip = Unknown
	}
	return Info{
		IP:       ip,
		City:     Unknown,
		Region:   Unknown,
		Country:  Unknown,
		Timezone: Unknown,
		Org:      Unknown,
	}
}

// Fields returns the six record fields in display order.
func (i Info) Fields() []Field {
	return []Field{
		{Name: FieldIP, Value: i.IP},
		{Name: FieldCity, Value: i.City},
		{Name: FieldRegion, Value: i.Region},
		{Name: FieldCountry, Value: i.Country},
		{Name: FieldTimezone, Value: i.Timezone},
		{Name: FieldOrg, Value: i.Org},
	}
}

// Map returns the raw lookup response overlaid with the six record fields.
// For fallback records it holds just the six fields.
func (i Info) Map() map[string]any {
	m := make(map[string]any, len(i.Extra)+len(fieldNames))
	for k, v := range i.Extra {
		m[k] = v
	}
	for _, f := range i.Fields() {
		m[f.Name] = f.Value
	}
	return m
}

// Additional returns the lookup response fields other than the six record
// fields. It is nil for fallback records.
func (i Info) Additional() map[string]any {
	var extra map[string]any
	for k, v := range i.Extra {
		if isRecordField(k) {
			continue
		}
		if extra == nil {
			extra = make(map[string]any, len(i.Extra))
		}
		extra[k] = v
	}
	return extra
}

func isRecordField(name string) bool {
	for _, f := range fieldNames {
		if f == name {
			return true
		}
	}
	return false
}

// IsFallback reports whether every field except the IP is Unknown.
func (i Info) IsFallback() bool {
	return i.City == Unknown && i.Region == Unknown && i.Country == Unknown &&
		i.Timezone == Unknown && i.Org == Unknown
}

// set assigns a record field by name.
func (i *Info) set(name, value string) {
	switch name {
	case FieldIP:
		i.IP = value
	case FieldCity:
		i.City = value
	case FieldRegion:
		i.Region = value
	case FieldCountry:
		i.Country = value
	case FieldTimezone:
		i.Timezone = value
	case FieldOrg:
		i.Org = value
	}
}
