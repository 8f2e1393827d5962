package recorder

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

func initializeCSV(filename string, header []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return errors.Wrapf(err, "write header to %s", filename)
	}
	writer.Flush()
	return errors.Wrapf(writer.Error(), "flush %s", filename)
}

func appendToCSV(filename string, data [][]string) error {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open csv")
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(data); err != nil {
		file.Close()
		return errors.Wrapf(err, "write data to %s", filename)
	}
	return errors.Wrapf(file.Close(), "close %s", filename)
}

// fileExists 检查文件是否存在
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
