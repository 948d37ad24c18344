package workout

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Validation errors. None of them changes the session.
var (
	ErrRepsRequired  = errors.New("please enter reps")
	ErrInvalidRPE    = errors.New("rpe must be a whole number from 1 to 10")
	ErrInvalidWeight = errors.New("weight must be a non-negative number")
	ErrUnknownSet    = errors.New("no such exercise or set in this workout")
)

// SetInput is the raw text typed for one set.
type SetInput struct {
	Weight string
	Reps   string
	RPE    string
}

// parsed holds validated set values.
type parsed struct {
	weight float64
	reps   int
	rpe    *int
}

func (in SetInput) parse() (parsed, error) {
	var p parsed

	reps, err := strconv.Atoi(strings.TrimSpace(in.Reps))
	if err != nil || reps <= 0 {
		return p, ErrRepsRequired
	}
	p.reps = reps

	if w := strings.TrimSpace(in.Weight); w != "" {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return p, ErrInvalidWeight
		}
		p.weight = v
	}

	if r := strings.TrimSpace(in.RPE); r != "" {
		v, err := strconv.Atoi(r)
		if err != nil || v < 1 || v > 10 {
			return p, ErrInvalidRPE
		}
		p.rpe = &v
	}
	return p, nil
}
