package toolsreg

// RegisterBuiltins registers the four built-in tools (shell, read_file,
// write_file, calculate) onto r in a fixed order, so the grammar and
// prompt listing built from a freshly constructed registry are
// deterministic across runs.
func RegisterBuiltins(r *Registry) error {
	descriptors := []Descriptor{
		NewShellDescriptor(),
		NewReadFileDescriptor(),
		NewWriteFileDescriptor(),
		NewCalculateDescriptor(),
	}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
