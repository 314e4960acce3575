package riscv

// Config controls a decode session.
type Config struct {
	// Catalog names the Instruction Register table ("riscv" or
	// "arm-jtag-dp"). Empty selects riscv.
	Catalog string

	// Strict panics when a decoder produces an invalid annotation range
	// instead of logging and dropping it. Meant for tests and development.
	Strict bool

	// Channels restricts output to the listed channels. Nil emits all.
	Channels []Channel

	catalog *Catalog
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Catalog: RISCV.Name,
		Strict:  false,
	}
}

// Validate resolves the catalog name.
func (c *Config) Validate() error {
	if c.Catalog == "" {
		c.Catalog = RISCV.Name
	}
	cat, err := LookupCatalog(c.Catalog)
	if err != nil {
		return err
	}
	c.catalog = cat
	return nil
}

// InstructionCatalog returns the resolved catalog; Validate must have been
// called.
func (c *Config) InstructionCatalog() *Catalog {
	if c.catalog == nil {
		return RISCV
	}
	return c.catalog
}
