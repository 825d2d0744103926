package resume

import (
	"os"

	"github.com/pkg/errors"
)

// Load reads an exported record from a JSON file.
func Load(path string) (rec Record, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume file: %s", path)
		return rec, err
	}

	rec, err = Decode(data)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode resume file: %s", path)
		return rec, err
	}

	return rec, err
}
