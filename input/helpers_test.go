package input

import "keyaccordion/accordion"

type displayFunc func(accordion.NoteEvent)

func (f displayFunc) Show(ev accordion.NoteEvent) { f(ev) }
