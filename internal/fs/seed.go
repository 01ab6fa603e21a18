package fs

import (
	"fmt"
	"time"
)

const (
	kb = int64(1024)
	mb = 1024 * kb
)

type seedEntry struct {
	name     string
	fileType FileType
	size     int64
	age      time.Duration
	starred  bool
	shared   bool
	children []seedEntry
	folder   bool
}

func folder(name string, age time.Duration, children ...seedEntry) seedEntry {
	return seedEntry{name: name, folder: true, age: age, children: children}
}

func file(name string, t FileType, size int64, age time.Duration) seedEntry {
	return seedEntry{name: name, fileType: t, size: size, age: age}
}

var demoTree = []seedEntry{
	folder("Course Materials", 72*time.Hour,
		folder("Intro to Algebra", 48*time.Hour,
			file("Syllabus.docx", FileTypeWord, 48*kb, 40*time.Hour),
			file("Lecture 01.pptx", FileTypePowerPoint, 2400*kb, 30*time.Hour),
			file("Lecture 01 recording.mp4", FileTypeVideo, 184*mb, 29*time.Hour),
		),
		folder("Biology 101", 36*time.Hour,
			file("Cell diagram.png", FileTypeImage, 860*kb, 20*time.Hour),
			file("Lab handbook.pdf", FileTypePDF, 3100*kb, 18*time.Hour),
		),
	),
	folder("Reports", 24*time.Hour,
		file("Q1.pdf", FileTypePDF, 2*mb, 12*time.Hour),
		file("Q2.pdf", FileTypePDF, 3*mb, 10*time.Hour),
		file("Enrollment 2024.xlsx", FileTypeExcel, 512*kb, 8*time.Hour),
	),
	{name: "Student Handbook.pdf", fileType: FileTypePDF, size: 5 * mb, age: 6 * time.Hour, starred: true, shared: true},
	file("Meeting notes.txt", FileTypeDocument, 4*kb, 2*time.Hour),
	file("Campus map.jpg", FileTypeImage, 1200*kb, time.Hour),
	file("Archive.zip", FileTypeOther, 42*mb, 96*time.Hour),
}

// SeedDemo fills the root of s with a sample document library.
func SeedDemo(s *Store, owner string, now time.Time) error {
	var add func(entries []seedEntry, parentID string) error
	add = func(entries []seedEntry, parentID string) error {
		for _, e := range entries {
			node := Node{
				Name:       e.name,
				Kind:       KindFile,
				FileType:   e.fileType,
				SizeBytes:  e.size,
				ModifiedAt: now.Add(-e.age),
				Owner:      owner,
				Starred:    e.starred,
				Shared:     e.shared,
			}
			if e.folder {
				node.Kind = KindFolder
			}
			stored, err := s.Add(node, parentID)
			if err != nil {
				return fmt.Errorf("seed %q: %w", e.name, err)
			}
			if err := add(e.children, stored.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := add(demoTree, s.RootID()); err != nil {
		return err
	}
	return s.Validate()
}
