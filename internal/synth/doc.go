// Package synth generates one internally consistent synthetic Japanese
// identity per fill pass, plus the job posting bundle used on job posting
// forms.
//
// All randomness flows through a Source so tests can fix outcomes with a seed.
package synth
