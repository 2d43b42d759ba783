package spec

import "fmt"

// BuildLevels groups the declared packages into dependency levels: every
// package in level n depends only on packages in levels below n. Levels
// must be built in order; packages within one level share no dependency
// edge and may be built concurrently. Within a level, declaration order is
// preserved.
//
// An unknown dependency name or a dependency cycle is an error.
func (s *ProtogenSpec) BuildLevels() ([][]string, error) {
	depths := make(map[string]int, len(s.Packages))
	visiting := make(map[string]bool, len(s.Packages))

	var depth func(name string) (int, error)
	depth = func(name string) (int, error) {
		if d, ok := depths[name]; ok {
			return d, nil
		}
		if visiting[name] {
			return 0, fmt.Errorf("dependency cycle through package %q", name)
		}
		pkg, ok := s.Find(name)
		if !ok {
			return 0, fmt.Errorf("unknown package %q in dependencies", name)
		}
		visiting[name] = true
		defer delete(visiting, name)
		d := 0
		for _, dep := range pkg.Dependencies {
			dd, err := depth(dep)
			if err != nil {
				return 0, err
			}
			if dd+1 > d {
				d = dd + 1
			}
		}
		depths[name] = d
		return d, nil
	}

	maxDepth := 0
	for _, pkg := range s.Packages {
		d, err := depth(pkg.Name)
		if err != nil {
			return nil, err
		}
		if d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]string, maxDepth+1)
	for _, pkg := range s.Packages {
		d := depths[pkg.Name]
		levels[d] = append(levels[d], pkg.Name)
	}
	return levels, nil
}
