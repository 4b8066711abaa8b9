package config

type ListenSettings struct {
	Host string
	Port int
}

type ChromaSettings struct {
	// Where the Chroma SDK accepts application registrations.
	RegistrationURL string
	// Upper bound on keyboard frame submissions per second.
	MaxFrameRate int
}

// EffectSettings enables or disables individual lighting effects. A
// disabled effect never reaches the keyboard.
type EffectSettings struct {
	Shoot         bool
	Kill          bool
	Smoke         bool
	Burning       bool
	Flash         bool
	Death         bool
	BombExplosion bool
	GameResult    bool
}

// IndicatorSettings covers the persistent key highlights, as opposed
// to the reactive effects above.
type IndicatorSettings struct {
	Defusal         bool
	MovementKeys    bool
	InteractionKeys bool
	InventoryKeys   bool
}

type Config struct {
	Listen               ListenSettings
	Chroma               ChromaSettings
	Effects              EffectSettings
	Indicators           IndicatorSettings
	ShowEffectsForOthers bool
	CloseAfterGameClose  bool
	WatchFeed            bool
}
