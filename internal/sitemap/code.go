package sitemap

import "strings"

const (
	CodeNS    = "codesearch"
	CodeNSURI = "http://www.google.com/codesearch/schemas/sitemap/1.0"
)

// FileType 为代码搜索的文件类型；Archive 表示压缩包，只有它可以携带 packagemap。
type FileType string

const (
	FileTypeArchive    FileType = "archive"
	FileTypeAda        FileType = "ada"
	FileTypeAssembly   FileType = "assembly"
	FileTypeC          FileType = "c"
	FileTypeCpp        FileType = "c++"
	FileTypeCSharp     FileType = "c#"
	FileTypeFortran    FileType = "fortran"
	FileTypeGo         FileType = "go"
	FileTypeJava       FileType = "java"
	FileTypeJavaScript FileType = "javascript"
	FileTypeLisp       FileType = "lisp"
	FileTypeLua        FileType = "lua"
	FileTypePascal     FileType = "pascal"
	FileTypePerl       FileType = "perl"
	FileTypePHP        FileType = "php"
	FileTypePython     FileType = "python"
	FileTypeRuby       FileType = "ruby"
	FileTypeScheme     FileType = "scheme"
	FileTypeShell      FileType = "shell"
	FileTypeSQL        FileType = "sql"
	FileTypeTcl        FileType = "tcl"
)

// License 为代码许可证标识。
type License string

const (
	LicenseAladdin    License = "aladdin"
	LicenseApache     License = "apache"
	LicenseArtistic   License = "artistic"
	LicenseBSD        License = "bsd"
	LicenseCPL        License = "cpl"
	LicenseDisclaimer License = "disclaimer"
	LicenseGPL        License = "gpl"
	LicenseIBM        License = "ibm"
	LicenseLGPL       License = "lgpl"
	LicenseMIT        License = "mit"
	LicenseMozilla    License = "mozilla"
	LicensePython     License = "python"
	LicenseZope       License = "zope"
)

type CodeURL struct {
	WebURL
	fileType   FileType
	license    License
	fileName   string
	packageURL string
	packageMap string
}

type CodeURLOptions struct {
	URLOptions
	FileType   FileType
	License    License
	FileName   string
	PackageURL string
	PackageMap string
}

func NewCodeURL(loc string, ft FileType) (*CodeURL, error) {
	return NewCodeURLWith(loc, CodeURLOptions{FileType: ft})
}

func NewCodeURLWith(loc string, o CodeURLOptions) (*CodeURL, error) {
	if o.FileType == "" {
		return nil, configErrorf("code search file type is required")
	}
	if o.PackageMap != "" && o.FileType != FileTypeArchive {
		return nil, configErrorf("packagemap is only allowed for file type %q, got %q", FileTypeArchive, o.FileType)
	}
	u := &CodeURL{
		fileType:   o.FileType,
		license:    o.License,
		fileName:   o.FileName,
		packageURL: o.PackageURL,
		packageMap: o.PackageMap,
	}
	if err := u.init(loc, o.URLOptions); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *CodeURL) FileType() FileType { return u.fileType }

var CodeRenderer = Renderer[*CodeURL]{
	Flavor:     FlavorCode,
	Namespaces: namespaceAttr(CodeNS, CodeNSURI),
	Parse: func(raw string) (*CodeURL, error) {
		return nil, configErrorf("code search URL %q needs a file type; use NewCodeURL", raw)
	},
	Render: func(sb *strings.Builder, u *CodeURL, df DateFormatter) {
		var ext strings.Builder
		openBlock(&ext, CodeNS, "codesearch")
		renderTag(&ext, CodeNS, "filetype", string(u.fileType))
		renderTag(&ext, CodeNS, "license", string(u.license))
		renderTag(&ext, CodeNS, "filename", u.fileName)
		renderTag(&ext, CodeNS, "packageurl", u.packageURL)
		renderTag(&ext, CodeNS, "packagemap", u.packageMap)
		closeBlock(&ext, CodeNS, "codesearch")
		renderURL(sb, &u.WebURL, df, ext.String())
	},
}
