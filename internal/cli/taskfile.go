package cli

import (
	"fmt"
	"os"

	"github.com/me/taskflow/pkg/model"
	"gopkg.in/yaml.v3"
)

// LoadTaskFile reads a task batch from a YAML or JSON file. The file holds
// either a bare list of tasks or a mapping with a "tasks" key.
func LoadTaskFile(path string) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return parseTasks(data)
}

func parseTasks(data []byte) ([]model.Task, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("parse task file: empty document")
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var tasks []model.Task
		if err := doc.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
		return tasks, nil
	case yaml.MappingNode:
		var req model.ScheduleRequest
		if err := doc.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
		return req.Tasks, nil
	default:
		return nil, fmt.Errorf("parse task file: expected a list of tasks or a \"tasks\" mapping")
	}
}
