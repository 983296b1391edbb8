package cmd

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed builderTemplate.txt
var builderTemplate string

//go:embed modelTemplate.txt
var modelTemplate string

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Create and manage simulation models.",
	Long:  "`scaffold --create [ModelName]` creates a new model package.",
	Run: func(cmd *cobra.Command, args []string) {
		modelName, _ := cmd.Flags().GetString("create")
		if modelName != "" {
			if !inGitRepo() {
				log.Fatalf(
					"Error: This command must be run inside a Git repository.",
				)
			}

			err := createModelFolder(modelName)
			if err != nil {
				log.Fatalf("Error creating model: %v", err)
			} else {
				fmt.Printf("Model '%s' created successfully!\n", modelName)
			}

			errFile := generateBuilderFile(modelName)
			if errFile != nil {
				log.Fatalf("Error generating builder file: %v\n", errFile)
			} else {
				fmt.Println("Builder file generated successfully!")
			}

			errModel := generateModelFile(modelName)
			if errModel != nil {
				log.Fatalf("Error generating model file: %v\n", errModel)
			} else {
				fmt.Println("Model file generated successfully!")
			}
		} else {
			fmt.Println("Action not valid.")
		}
	},
}

func init() {
	rootCmd.AddCommand(scaffoldCmd)
	scaffoldCmd.Flags().String("create", "", "Create a new model")
}

// Check if current operation is in a Git repository
func inGitRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = filepath.Dir(".")

	output, err := cmd.Output()
	if err != nil {
		return false
	}

	return strings.TrimSpace(string(output)) == "true"
}

// Create folder for the new model
func createModelFolder(name string) error {
	_, err := os.Stat(name)
	if err == nil {
		return fmt.Errorf("folder '%s' already exists", name)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%v", err)
	}

	return os.MkdirAll(name, 0755)
}

// Create builder file for the new model
func generateBuilderFile(folder string) error {
	return generateFromTemplate(folder, "builder.go", builderTemplate)
}

// Create model file for the new model
func generateModelFile(folder string) error {
	return generateFromTemplate(folder, "model.go", modelTemplate)
}

func generateFromTemplate(folder, filename, template string) error {
	// Ensure the folder exists before proceeding
	_, errFind := os.Stat(folder)
	if os.IsNotExist(errFind) {
		return fmt.Errorf("failed to find folder %s", folder)
	} else if errFind != nil {
		return fmt.Errorf("%v", errFind)
	}

	filePath := filepath.Join(folder, filename)
	placeholder := "{{packageName}}"
	packageName := folder
	content := strings.Replace(template, placeholder, packageName, -1)

	err := os.WriteFile(filePath, []byte(content), 0644)
	if err != nil {
		return fmt.Errorf("%v", err)
	}

	return nil
}
