package models

import "fmt"

// Specialization is the legal domain a user's agent focuses on. The set is
// closed: values outside it are rejected at the boundary, never defaulted.
type Specialization string

const (
	SpecializationGeneral Specialization = "general"
	SpecializationPenal   Specialization = "penal"
	SpecializationCivil   Specialization = "civil"
	SpecializationLaboral Specialization = "laboral"
)

// Specializations lists every valid specialization.
var Specializations = []Specialization{
	SpecializationGeneral,
	SpecializationPenal,
	SpecializationCivil,
	SpecializationLaboral,
}

// ParseSpecialization validates a raw string against the closed enum.
func ParseSpecialization(s string) (Specialization, error) {
	for _, v := range Specializations {
		if Specialization(s) == v {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "specialization", Reason: fmt.Sprintf("unknown value %q", s)}
}

// Valid reports whether s is a member of the closed enum.
func (s Specialization) Valid() bool {
	_, err := ParseSpecialization(string(s))
	return err == nil
}

// Tone is the communication register used in responses.
type Tone string

const (
	ToneFormal    Tone = "formal"
	ToneColoquial Tone = "coloquial"
	ToneTecnico   Tone = "tecnico"
)

// Tones lists every valid tone.
var Tones = []Tone{ToneFormal, ToneColoquial, ToneTecnico}

// ParseTone validates a raw string against the closed enum.
func ParseTone(s string) (Tone, error) {
	for _, v := range Tones {
		if Tone(s) == v {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "tone", Reason: fmt.Sprintf("unknown value %q", s)}
}

// Valid reports whether t is a member of the closed enum.
func (t Tone) Valid() bool {
	_, err := ParseTone(string(t))
	return err == nil
}
