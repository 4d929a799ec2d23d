package config

//go:generate go tool go-enum --marshal --names --values

// Jet clustering algorithm.
// ENUM(antikt, kt, cambridge)
type Algorithm int

// Particle collection jets are clustered from.
// ENUM(pf, gen)
type Collection int
