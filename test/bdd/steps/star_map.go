package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/crow-router/crow/test/helpers"
)

// starMap is the directory shared by every step context of a scenario
type starMap struct {
	directory *helpers.MockDirectoryClient
}

// world is reset before each scenario by the route search scenario hooks
var world = &starMap{}

func (m *starMap) reset() {
	m.directory = helpers.NewMockDirectoryClient()
}

func (m *starMap) aStarMapWithSystems(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		name := getCellValue(table, row, "name")
		if name == "" {
			return fmt.Errorf("star map row without a name")
		}
		x, err := getFloatCell(table, row, "x")
		if err != nil {
			return err
		}
		y, err := getFloatCell(table, row, "y")
		if err != nil {
			return err
		}
		z, err := getFloatCell(table, row, "z")
		if err != nil {
			return err
		}
		m.directory.AddSystem(name, x, y, z)
	}
	return nil
}

func (m *starMap) theDirectoryAnswersNearbyQueriesWithSlack(slack float64) error {
	m.directory.SetNearbySlack(slack)
	return nil
}

func (m *starMap) systemIsListedWithoutCoordinates(name string) error {
	m.directory.AddIncompleteSystem(name, 0, 0, 0)
	return nil
}
