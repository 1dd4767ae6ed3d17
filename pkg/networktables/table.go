package networktables

// Table writes keys under one table prefix.
type Table struct {
	client *Client
	name   string
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// PutNumber publishes a double under key.
func (t *Table) PutNumber(key string, v float64) error {
	return t.client.Set(Entry{Name: TopicName(t.name, key), Type: TypeDouble, Value: v})
}

// PutBoolean publishes a boolean under key.
func (t *Table) PutBoolean(key string, v bool) error {
	return t.client.Set(Entry{Name: TopicName(t.name, key), Type: TypeBoolean, Value: v})
}

// PutString publishes a string under key.
func (t *Table) PutString(key string, v string) error {
	return t.client.Set(Entry{Name: TopicName(t.name, key), Type: TypeString, Value: v})
}
