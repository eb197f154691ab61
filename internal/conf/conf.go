package conf

// Bootstrap is the top-level configuration scanned from the config file.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
}

// Server holds the transport configuration.
type Server struct {
	Http *HTTP `json:"http"`
}

// HTTP configures the HTTP server. Timeout is a duration string, eg "1s".
type HTTP struct {
	Network string `json:"network"`
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// Data holds the data source configuration.
type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
	Rabbitmq *Rabbitmq `json:"rabbitmq"`
}

// Database configures the relational store behind the record repo.
type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Redis configures the dedup cache.
type Redis struct {
	Addr string `json:"addr"`
}

// Rabbitmq configures the verification event publisher. The publisher is
// disabled when Host is empty.
type Rabbitmq struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Vhost    string `json:"vhost"`
	Exchange string `json:"exchange"`
}
