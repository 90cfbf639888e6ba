package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	PDFExtractTextDescription = `Reconstruct the running text of a PDF document as clean, readable sentences.

**When to use:** Need the actual prose of a document (papers, reports, books) without headers, footers, page numbers, captions or table fragments mixed in.

**Why it's useful:** Goes far beyond raw text dumps. The extractor detects the document's body font, filters out everything set in other styles, reassembles paragraphs across column and page breaks, keeps chapter headlines from the document outline, and splits the result into sentences separated by blank lines.

**Examples:**
• Prepare a corpus: "Extract the running text from survey-2024.pdf for language analysis"
• Summarize a paper: "Get the body text of attention.pdf, pages 1-9"
• Feed a TTS system: "Extract clean sentences from novel-chapter-3.pdf"

**Common workflows:**
1. Research & Analysis: Extract text → Analyze content → Generate summaries
2. Corpus Building: Extract per document → Collect sentences → Train or evaluate models
3. Accessibility: Extract → Read aloud → Navigate by sentence

**Best practices:** Validate the file first, use the 'pages' parameter to skip front matter and references, check the reported body font and sentence count to judge extraction quality.`

	PDFDocumentInfoDescription = `Get document structure and metadata: page count, PDF version, encryption status, info dictionary and outline.

**When to use:** Need document properties, the chapter structure, or to understand a document before extracting its text.

**Why it's useful:** Provides essential metadata for document management and shows the outline the text extractor uses for headline detection, so you can predict which titles survive extraction.

**Examples:**
• Document management: "Get title, author and creation date from legal-contract.pdf"
• Structure preview: "Show the outline of textbook.pdf to pick the chapters worth extracting"
• Processing decisions: "Check the page count of manual.pdf to estimate processing time"

**Common workflows:**
1. Document Cataloging: Get info → Store metadata → Index for search
2. Targeted Extraction: Read outline → Choose page ranges → Extract selected chapters
3. Compliance & Audit: Extract metadata → Verify properties → Log for records

**Best practices:** Outline page numbers may be missing in some documents; titles are still reported and still drive headline detection.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before attempting to extract any PDF file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted files early, and ensures compatibility with the extraction pipeline.

**Examples:**
• Batch processing safety: "Validate all PDFs in /papers/ before bulk extraction"
• Upload verification: "Check user-uploaded contract.pdf is valid before processing"
• Quality control: "Verify exported-report.pdf is readable before sending to client"

**Common workflows:**
1. Automated Processing: Validate → Extract if valid → Handle errors gracefully
2. File Quality Check: Validate → Report issues → Fix or reject bad files
3. Pre-processing Pipeline: Validate → Route to appropriate handling

**Best practices:** Always run this first in automated workflows, essential for production systems handling unknown PDFs.`

	PDFSearchDirectoryDescription = `Discover and filter PDF files across directories with intelligent search.

**When to use:** Need to find specific PDFs in large document collections, browse available files, or build file processing pipelines.

**Why it's useful:** Fuzzy search matches partial filenames and word combinations, making it easy to locate documents without knowing exact names.

**Examples:**
• Find specific documents: "Search for 'invoice 2024' in /documents/ to find all 2024 invoices"
• Browse collections: "List all PDFs in /research-papers/ directory"
• Build processing queues: "Find all PDFs in /inbox/ for batch extraction"

**Common workflows:**
1. Document Discovery: Search directory → Review results → Select files to extract
2. Batch Processing Setup: Find all PDFs → Validate each → Extract in sequence
3. Content Organization: Search by keywords → Group files → Organize collections

**Best practices:** Use specific search terms for better results, searches are recursive and skip files that fail basic validation.`

	PDFServerInfoDescription = `Get comprehensive server capabilities, configuration and directory contents.

**When to use:** Starting a session, checking what the server can do, or discovering the configured directories and size limits.

**Why it's useful:** Reports the available tools, the configured PDF and output directories, the file size limit, and a preview of the PDF files currently visible to the server.

**Examples:**
• Session setup: "Get server info to see available tools and the default directory"
• Capability check: "Confirm the maximum file size before uploading a large scan"
• Directory preview: "List the PDFs the server can currently reach"

**Common workflows:**
1. Session Initialization: Get server info → Understand capabilities → Plan workflow
2. Troubleshooting: Check configuration → Verify directory access → Diagnose issues
3. Discovery: Review directory contents → Pick documents → Extract

**Best practices:** Directory contents are cached briefly and may be truncated for large directories; use pdf_search_directory for a complete listing.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_extract_text":     PDFExtractTextDescription,
	"pdf_document_info":    PDFDocumentInfoDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_search_directory": PDFSearchDirectoryDescription,
	"pdf_server_info":      PDFServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
