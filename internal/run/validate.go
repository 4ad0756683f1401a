package run

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reprobio/omexrun/internal/combine"
	"github.com/reprobio/omexrun/internal/kisao"
	"github.com/reprobio/omexrun/internal/sbml"
	"github.com/reprobio/omexrun/internal/sedml"
)

// Issue is one validation finding for an archive.
type Issue struct {
	// Document is the SED-ML document location, empty for archive-level
	// findings.
	Document string

	// Subject names the element the finding is about (task, report,
	// data generator id).
	Subject string

	Message string
}

func (i Issue) String() string {
	switch {
	case i.Document == "":
		return i.Message
	case i.Subject == "":
		return fmt.Sprintf("%s: %s", i.Document, i.Message)
	default:
		return fmt.Sprintf("%s: %s: %s", i.Document, i.Subject, i.Message)
	}
}

// ValidateArchive checks a COMBINE archive without running the engine: the
// container and manifest, every SED-ML document, and for every task the
// model import, the algorithm and its parameters, the time course, and the
// requested variables. Findings are returned as issues; err is non-nil
// only when the archive cannot be inspected at all.
func ValidateArchive(archivePath string) ([]Issue, error) {
	workDir, err := os.MkdirTemp("", "omexrun-validate-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)

	archive, err := combine.Read(archivePath, workDir)
	if err != nil {
		return nil, err
	}

	docs := archive.SEDMLContents()
	if len(docs) == 0 {
		return []Issue{{Message: "archive contains no SED-ML documents"}}, nil
	}

	var issues []Issue
	for _, content := range docs {
		docPath := filepath.Join(workDir, filepath.FromSlash(content.Location))
		doc, err := sedml.ReadFile(docPath)
		if err != nil {
			issues = append(issues, Issue{Document: content.Location, Message: err.Error()})
			continue
		}
		issues = append(issues, validateDocument(doc, content.Location, filepath.Dir(docPath))...)
	}
	return issues, nil
}

// validateDocument checks every task reachable from the document's
// reports.
func validateDocument(doc *sedml.Document, location, docDir string) []Issue {
	var issues []Issue
	addIssue := func(subject, msg string) {
		issues = append(issues, Issue{Document: location, Subject: subject, Message: msg})
	}

	if len(doc.Reports) == 0 {
		addIssue("", "document has no reports")
		return issues
	}

	checkedTasks := map[string]bool{}
	for _, rep := range doc.Reports {
		for _, ds := range rep.DataSets {
			gen := doc.DataGenerator(ds.DataGeneratorID)
			v, err := identityVariable(gen)
			if err != nil {
				addIssue(gen.ID, err.Error())
				continue
			}
			if checkedTasks[v.TaskID] {
				continue
			}
			checkedTasks[v.TaskID] = true
			issues = append(issues, validateTask(doc, location, docDir, v.TaskID)...)
		}
	}
	return issues
}

func validateTask(doc *sedml.Document, location, docDir, taskID string) []Issue {
	var issues []Issue
	addIssue := func(msg string) {
		issues = append(issues, Issue{Document: location, Subject: taskID, Message: msg})
	}

	task := doc.Task(taskID)
	if task == nil {
		addIssue("undefined task")
		return issues
	}
	model := doc.Model(task.ModelID)
	sim := doc.Simulation(task.SimulationID)

	var sbmlModel *sbml.Model
	if !strings.HasPrefix(model.Language, sedml.LanguageSBML) {
		addIssue((&UnsupportedLanguageError{Language: model.Language}).Error())
	} else {
		source := model.Source
		if !filepath.IsAbs(source) {
			source = filepath.Join(docDir, filepath.FromSlash(source))
		}
		m, err := sbml.ReadModel(source)
		if err != nil {
			addIssue((&ModelImportError{Source: model.Source, Err: err}).Error())
		} else {
			sbmlModel = m
		}
	}

	if alg, err := kisao.Lookup(sim.Algorithm.KisaoID); err != nil {
		addIssue(err.Error())
	} else if _, err := alg.ResolveChanges(sim.Algorithm.Changes); err != nil {
		addIssue(err.Error())
	}

	if _, _, err := stepPlan(sim); err != nil {
		addIssue(err.Error())
	}

	if sbmlModel != nil {
		var variables []sedml.Variable
		for _, gen := range doc.DataGenerators {
			for _, v := range gen.Variables {
				if v.TaskID == taskID {
					variables = append(variables, v)
				}
			}
		}
		if err := checkVariables(variables, sbmlModel); err != nil {
			addIssue(err.Error())
		}
	}
	return issues
}
