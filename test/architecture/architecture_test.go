package architecture_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	root       = "../.."
	modulePath = "github.com/davidleathers/phonenumbers-na/"
)

// allowedDomainImports lists, per domain package, the other internal packages it may use.
var allowedDomainImports = map[string][]string{
	"areacode":   {},
	"errors":     {},
	"values":     {"internal/domain/areacode"},
	"nanp":       {"internal/domain/areacode", "internal/domain/values", "internal/domain/errors"},
	"crosscheck": {"internal/domain/areacode"},
}

// TestDomainPackagesFormADAG ensures each domain package only reaches the
// packages listed for it.
func TestDomainPackagesFormADAG(t *testing.T) {
	for pkg, allowed := range allowedDomainImports {
		t.Run(pkg, func(t *testing.T) {
			files := goFiles(t, filepath.Join(root, "internal/domain", pkg), false)
			require.NotEmpty(t, files, "domain package %s has no sources", pkg)

			for _, file := range files {
				for _, imp := range getFileImports(file) {
					if !strings.HasPrefix(imp, modulePath) {
						continue
					}
					rel := strings.TrimPrefix(imp, modulePath)
					ok := false
					for _, a := range allowed {
						if rel == a {
							ok = true
						}
					}
					assert.True(t, ok, "%s imports %s", file, rel)
				}
			}
		})
	}
}

// TestDomainNotDependOnInfrastructure ensures the domain layer performs no I/O
// and never reaches outward layers.
func TestDomainNotDependOnInfrastructure(t *testing.T) {
	forbiddenImports := []string{
		"database/sql",
		"net/http",
		"os",
		"github.com/lib/pq",
		"github.com/jackc/pgx",
		"github.com/redis/go-redis",
		"github.com/gorilla/websocket",
		"go.uber.org/zap",
		modulePath + "internal/infrastructure",
		modulePath + "internal/service",
		modulePath + "internal/api",
	}

	for _, file := range goFiles(t, filepath.Join(root, "internal/domain"), true) {
		for _, imp := range getFileImports(file) {
			for _, forbidden := range forbiddenImports {
				// Standard library entries match exactly; module entries match subpackages.
				if imp == forbidden || (strings.Contains(forbidden, ".") && strings.HasPrefix(imp, forbidden+"/")) {
					t.Errorf("Domain file %s imports infrastructure: %s", file, imp)
				}
			}
		}
	}
}

// TestServicesDoNotImportTransport keeps the service layer independent of the API.
func TestServicesDoNotImportTransport(t *testing.T) {
	for _, file := range goFiles(t, filepath.Join(root, "internal/service"), true) {
		for _, imp := range getFileImports(file) {
			if strings.HasPrefix(imp, modulePath+"internal/api") {
				t.Errorf("Service file %s imports %s", file, imp)
			}
		}
	}
}

// TestPublicPackageOnlyWrapsDomain keeps pkg/phonenumbers free of infrastructure.
func TestPublicPackageOnlyWrapsDomain(t *testing.T) {
	for _, file := range goFiles(t, filepath.Join(root, "pkg"), true) {
		for _, imp := range getFileImports(file) {
			if strings.HasPrefix(imp, modulePath) && !strings.HasPrefix(imp, modulePath+"internal/domain") {
				t.Errorf("Public file %s imports %s", file, imp)
			}
		}
	}
}

// TestServiceMaxDependencies ensures services don't have more than 5 dependencies
func TestServiceMaxDependencies(t *testing.T) {
	const maxDeps = 5

	for _, service := range []string{"extraction", "crosscheck"} {
		t.Run(service, func(t *testing.T) {
			files := goFiles(t, filepath.Join(root, "internal/service", service), false)
			require.NotEmpty(t, files)
			for _, file := range files {
				if deps := countServiceDependencies(file); deps > maxDeps {
					t.Errorf("Service in %s has %d dependencies (max allowed: %d)", file, deps, maxDeps)
				}
			}
		})
	}
}

// TestValueObjectsAreImmutable ensures value objects don't have setters
func TestValueObjectsAreImmutable(t *testing.T) {
	for _, file := range goFiles(t, filepath.Join(root, "internal/domain/values"), false) {
		fset := token.NewFileSet()
		node, err := parser.ParseFile(fset, file, nil, parser.ParseComments)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", file, err)
			continue
		}

		ast.Inspect(node, func(n ast.Node) bool {
			fn, ok := n.(*ast.FuncDecl)
			if !ok || fn.Recv == nil {
				return true
			}
			if strings.HasPrefix(fn.Name.Name, "Set") {
				t.Errorf("Value object in %s has setter method: %s", file, fn.Name.Name)
			}
			// Pointer receivers are reserved for decoding.
			if _, ptr := fn.Recv.List[0].Type.(*ast.StarExpr); ptr && !isDecoder(fn.Name.Name) {
				t.Errorf("Value object in %s mutates through %s", file, fn.Name.Name)
			}
			return true
		})
	}
}

// Helper functions

func isDecoder(name string) bool {
	return strings.HasPrefix(name, "Unmarshal") || name == "Scan"
}

// goFiles lists non-test Go files under dir.
func goFiles(t *testing.T, dir string, recursive bool) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func getFileImports(filename string) []string {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, content, parser.ImportsOnly)
	if err != nil {
		return nil
	}

	var imports []string
	for _, imp := range node.Imports {
		if imp.Path != nil {
			imports = append(imports, strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

// countServiceDependencies returns the largest number of collaborator fields
// held by a service struct in filename.
func countServiceDependencies(filename string) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		return 0
	}

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, content, parser.ParseComments)
	if err != nil {
		return 0
	}

	maxDeps := 0
	ast.Inspect(node, func(n ast.Node) bool {
		typeSpec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		structType, ok := typeSpec.Type.(*ast.StructType)
		if !ok || !strings.HasSuffix(strings.ToLower(typeSpec.Name.Name), "service") {
			return true
		}
		deps := 0
		for _, field := range structType.Fields.List {
			typeStr := getTypeString(field.Type)
			if strings.Contains(typeStr, "Repository") ||
				strings.Contains(typeStr, "Store") ||
				strings.Contains(typeStr, "Service") ||
				strings.Contains(typeStr, "Source") ||
				strings.Contains(typeStr, "Cache") ||
				strings.Contains(typeStr, "MetricsCollector") {
				deps++
			}
		}
		maxDeps = max(maxDeps, deps)
		return true
	})
	return maxDeps
}

func getTypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return getTypeString(t.X)
	case *ast.SelectorExpr:
		return getTypeString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return getTypeString(t.Elt)
	default:
		return ""
	}
}
