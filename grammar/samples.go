package grammar

// Simple returns a small English grammar in which a prepositional phrase can
// attach to either a noun phrase or a verb phrase, making sentences such as
// "John called Mary from Denver" ambiguous.
func Simple() Grammar {
	return MustParse(`
		S    -> NP VP ;
		NP   -> NP PP | Noun ;
		VP   -> Verb NP | VP PP ;
		PP   -> Prep NP ;
		Noun -> John | Mary | Denver ;
		Verb -> called ;
		Prep -> from ;
		%pos Noun Verb Prep ;
	`)
}

// Extended returns Simple with conjunctions, articles, adjectives, and adverbs
// added, along with a larger vocabulary.
func Extended() Grammar {
	return MustParse(`
		S       -> NP VP ;
		NP      -> NP PP | Noun | NP Conj NP | Article NP | Adj NP ;
		VP      -> Verb NP | VP PP | Adv VP ;
		PP      -> Prep NP ;
		Noun    -> John | Mary | Denver | men | women | Police | dogs ;
		Verb    -> called | like ;
		Prep    -> from ;
		Conj    -> and ;
		Adj     -> old ;
		Adv     -> quickly ;
		Article -> the ;
		%pos Noun Verb Prep Conj Adj Adv Article ;
	`)
}

// Homographs returns a grammar in which several words belong to more than one
// part of speech, so that a single scanned word can be explained by different
// predictions.
func Homographs() Grammar {
	return MustParse(`
		S       -> NP VP ;
		NP      -> Noun | Surname Noun | Verb Noun ;
		PP      -> Prep NP ;
		VP      -> Verb NP | ADV VP | PP VP ;
		Noun    -> wang | fanyi | xiaoshuo ;
		Verb    -> fanyi | zai ;
		Prep    -> zai ;
		ADV     -> zai ;
		Surname -> wang ;
		%pos Noun Verb Prep ADV Surname ;
	`)
}
