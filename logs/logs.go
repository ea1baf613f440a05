package logs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/tributary-sql/tributary/config"
)

var Output *os.File

func InitializeFileLogger() {
	path := filepath.Join(config.TributaryDir, "logs.txt")
	if err := os.MkdirAll(config.TributaryDir, 0755); err != nil {
		log.Fatalf("couldn't create ~/.tributary home directory: %s", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("couldn't create logs file: %s", err)
	}
	Output = f
	log.SetOutput(Output)
}

func CloseLogger() {
	Output.Close()
}
