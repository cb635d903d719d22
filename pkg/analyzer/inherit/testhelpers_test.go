package inherit

import "github.com/panbanda/tsorder/pkg/models"

// class builds a class descriptor; parent may be empty.
func class(path, name, parent string) models.ClassDescriptor {
	return models.ClassDescriptor{Path: path, IsClass: true, ClassName: name, ParentName: parent}
}

// plain builds a non-class descriptor.
func plain(path string) models.ClassDescriptor {
	return models.ClassDescriptor{Path: path}
}

func unit(path, src string) models.SourceUnit {
	return models.SourceUnit{Path: path, Content: []byte(src)}
}

func weights(descs []models.ClassDescriptor) map[string]int {
	w := make(map[string]int, len(descs))
	for _, d := range descs {
		if d.IsClass {
			w[d.ClassName] = d.ReferenceWeight
		}
	}
	return w
}
