package domain

// Databox is an ordered key/value block extracted from a hidden marker
// div in wiki HTML. Field order matters for display, so a plain map
// won't do.
type Databox struct {
	Fields []DataboxField
}

// DataboxField is a single databox entry. Semicolon-delimited values
// arrive as multiple entries in Values; most fields have exactly one.
type DataboxField struct {
	Key    string   `bson:"key" json:"key"`
	Values []string `bson:"values" json:"values"`
}

// Set appends or replaces the values for key.
func (d *Databox) Set(key string, values []string) {
	for i := range d.Fields {
		if d.Fields[i].Key == key {
			d.Fields[i].Values = values
			return
		}
	}
	d.Fields = append(d.Fields, DataboxField{Key: key, Values: values})
}

// Get returns the values for key, or nil if absent.
func (d *Databox) Get(key string) []string {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Values
		}
	}
	return nil
}

// Keys returns field keys in extraction order.
func (d *Databox) Keys() []string {
	keys := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Map flattens the databox into a plain map. Field order is lost;
// used for raw payload storage alongside the typed document.
func (d *Databox) Map() map[string][]string {
	m := make(map[string][]string, len(d.Fields))
	for _, f := range d.Fields {
		m[f.Key] = f.Values
	}
	return m
}
