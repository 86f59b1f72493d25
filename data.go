package peripheral

// DataGetter returns the current value of a named application data
// item, or nil when the item is unknown. The server does not interpret
// the bytes; it hands the delegate to the GATT layer that serves reads.
type DataGetter func(name string) []byte

// DataSetter stores a new value for a named application data item and
// reports whether the write was accepted. Invoked by the GATT layer on
// writes from a connected central.
type DataSetter func(name string, value []byte) bool

// GetData reads a named data item through the registered getter. It
// returns nil when no getter is registered.
func (s *Server) GetData(name string) []byte {
	if s.getter == nil {
		return nil
	}
	return s.getter(name)
}

// SetData writes a named data item through the registered setter. It
// returns false when no setter is registered.
func (s *Server) SetData(name string, value []byte) bool {
	if s.setter == nil {
		return false
	}
	return s.setter(name, value)
}
