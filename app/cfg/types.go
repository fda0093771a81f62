package cfg

type Cfg struct {
	// Application configuration
	FeedsDir     string
	Port         string
	BaseUrl      string
	WorkerCount  int
	FetchTimeout int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
