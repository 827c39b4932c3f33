// Copyright (c) 2026 Byte. All rights reserved.

/*
Package catalog implements the food reference data domain.

It exposes read-only lookups over the food table: a light id+name listing
for pickers, and a full nutritional profile lookup by (partial) name.

# Architecture

The catalog is read-heavy and write-never at runtime; rows are loaded by
migrations and operational tooling. Lookups go through a Redis cache-aside
layer keyed by slugified food names.
*/
package catalog

// # Domain Entities

// AminoAcids is a complete amino-acid profile, in grams per 100 g of food.
type AminoAcids struct {
	Alanine       float64 `json:"alanine"`
	Arginine      float64 `json:"arginine"`
	Asparagine    float64 `json:"asparagine"`
	AsparticAcid  float64 `json:"aspartic_acid"`
	Cysteine      float64 `json:"cysteine"`
	GlutamicAcid  float64 `json:"glutamic_acid"`
	Glutamine     float64 `json:"glutamine"`
	Glycine       float64 `json:"glycine"`
	Histidine     float64 `json:"histidine"`
	Isoleucine    float64 `json:"isoleucine"`
	Leucine       float64 `json:"leucine"`
	Lysine        float64 `json:"lysine"`
	Methionine    float64 `json:"methionine"`
	Phenylalanine float64 `json:"phenylalanine"`
	Proline       float64 `json:"proline"`
	Serine        float64 `json:"serine"`
	Threonine     float64 `json:"threonine"`
	Tryptophan    float64 `json:"tryptophan"`
	Tyrosine      float64 `json:"tyrosine"`
	Valine        float64 `json:"valine"`
}

// Add accumulates another profile into this one, scaled by factor.
func (acids *AminoAcids) Add(other AminoAcids, factor float64) {
	acids.Alanine += other.Alanine * factor
	acids.Arginine += other.Arginine * factor
	acids.Asparagine += other.Asparagine * factor
	acids.AsparticAcid += other.AsparticAcid * factor
	acids.Cysteine += other.Cysteine * factor
	acids.GlutamicAcid += other.GlutamicAcid * factor
	acids.Glutamine += other.Glutamine * factor
	acids.Glycine += other.Glycine * factor
	acids.Histidine += other.Histidine * factor
	acids.Isoleucine += other.Isoleucine * factor
	acids.Leucine += other.Leucine * factor
	acids.Lysine += other.Lysine * factor
	acids.Methionine += other.Methionine * factor
	acids.Phenylalanine += other.Phenylalanine * factor
	acids.Proline += other.Proline * factor
	acids.Serine += other.Serine * factor
	acids.Threonine += other.Threonine * factor
	acids.Tryptophan += other.Tryptophan * factor
	acids.Tyrosine += other.Tyrosine * factor
	acids.Valine += other.Valine * factor
}

// Food is one reference row of the catalog.
type Food struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	AminoAcids AminoAcids `json:"amino_acids_g"`
}

// FoodSummary is the light projection served by the listing endpoint.
type FoodSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// # Field Identifiers

const (
	FieldFoodName = "name"
)
